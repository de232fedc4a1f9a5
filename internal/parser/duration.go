package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	lettersRegex = regexp.MustCompile(`[a-z]`)
	hoursRegex   = regexp.MustCompile(`(\d+)\s*(?:hours|hour|hrs|hr)`)
	minutesRegex = regexp.MustCompile(`(\d+)\s*(?:minutes|minute|mins|min)`)
	secondsRegex = regexp.MustCompile(`(\d+)\s*(?:seconds|second|secs|sec)`)
)

// ParseDurationToSeconds parses a human-readable duration into seconds.
// Supported formats:
// - "00 HRS : 03 MIN : 20 SEC" or "01:30:00" (H:M:S)
// - "01:30" (H:M)
// - "1 hr 30 mins 20 sec" (any subset of units)
// - "90" (bare number, seconds)
// Anything else, including negative numbers, is 0.
func ParseDurationToSeconds(input string) int64 {
	str := strings.ToLower(strings.TrimSpace(input))
	if str == "" {
		return 0
	}

	if strings.Contains(str, ":") {
		if sec, ok := parseColonForm(str); ok {
			return sec
		}
	}

	var sec int64
	if m := hoursRegex.FindStringSubmatch(str); m != nil {
		sec += atoi64(m[1]) * 3600
	}
	if m := minutesRegex.FindStringSubmatch(str); m != nil {
		sec += atoi64(m[1]) * 60
	}
	if m := secondsRegex.FindStringSubmatch(str); m != nil {
		sec += atoi64(m[1])
	}
	if sec > 0 {
		return sec
	}

	// Bare numbers are seconds everywhere in this codebase
	f, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return int64(math.Floor(f))
}

// parseColonForm handles H:M:S and H:M with any unit labels stripped
func parseColonForm(str string) (int64, bool) {
	parts := strings.Split(lettersRegex.ReplaceAllString(str, ""), ":")
	nums := make([]int64, len(parts))
	for i, p := range parts {
		nums[i] = atoi64(strings.TrimSpace(p))
	}
	switch len(nums) {
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2], true
	case 2:
		return nums[0]*3600 + nums[1]*60, true
	}
	return 0, false
}

func atoi64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatDurationSeconds formats seconds as "HH HRS : MM MIN : SS SEC"
func FormatDurationSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d HRS : %02d MIN : %02d SEC", h, m, s)
}

// FormatShort renders a stored duration compactly, e.g. "1 hr 5 min"
func FormatShort(duration string) string {
	total := ParseDurationToSeconds(duration)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%d hr", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%d min", m))
	}
	if s > 0 {
		parts = append(parts, fmt.Sprintf("%d sec", s))
	}
	if len(parts) == 0 {
		return "0 sec"
	}
	return strings.Join(parts, " ")
}
