package api

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/punch/internal/models"
)

// Field aliases, camelCase first, then the header-style spellings the sheet emits
var (
	recordIDKeys        = []string{"recordId", "Record ID", "record id", "ID", "id"}
	dateKeys            = []string{"date", "Date"}
	userNameKeys        = []string{"userName", "User Name", "Name", "user name", "User"}
	sessionNoKeys       = []string{"sessionNo", "Session No", "Session", "session no"}
	startTimeKeys       = []string{"startTime", "Start Time", "start time", "Start"}
	endTimeKeys         = []string{"endTime", "End Time", "end time", "End"}
	durationKeys        = []string{"duration", "Duration"}
	workDescriptionKeys = []string{"workDescription", "Work Description", "work description", "Description"}
	statusKeys          = []string{"status", "Status"}
	projectKeys         = []string{"project", "Project"}
	categoryKeys        = []string{"category", "Category"}
	approvedStateKeys   = []string{"approvedState", "Approved State", "Approved", "approved state", "ReqStatus"}
	approvedByKeys      = []string{"approvedBy", "Approved By", "approved by", "ApprovedBy"}

	emailKeys     = []string{"email", "Email"}
	roleKeys      = []string{"role", "Role"}
	createdAtKeys = []string{"createdAt", "Created At", "created at", "CreatedAt"}
	totalKeys     = []string{"totalDuration", "Total Duration", "total duration", "Total"}
)

// NormalizeRecords converts raw rows into records, skipping anything that is not an object
func NormalizeRecords(rows []any) []models.Record {
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		item, ok := row.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, NormalizeRecord(item))
	}
	return records
}

// NormalizeRecord maps one raw row onto the canonical record shape
func NormalizeRecord(item map[string]any) models.Record {
	status := pick(item, statusKeys)
	if status == "" {
		status = models.StatusCompleted
	}
	approved := pick(item, approvedStateKeys)
	if approved == "" {
		approved = models.ApprovalPending
	}
	return models.Record{
		RecordID:        pick(item, recordIDKeys),
		Date:            normalizeDate(pick(item, dateKeys)),
		UserName:        pick(item, userNameKeys),
		SessionNo:       atoiLoose(pick(item, sessionNoKeys)),
		StartTime:       normalizeClock(pick(item, startTimeKeys)),
		EndTime:         normalizeClock(pick(item, endTimeKeys)),
		Duration:        pick(item, durationKeys),
		WorkDescription: pick(item, workDescriptionKeys),
		Project:         pick(item, projectKeys),
		Category:        pick(item, categoryKeys),
		Status:          status,
		ApprovedState:   approved,
		ApprovedBy:      pick(item, approvedByKeys),
	}
}

// NormalizeUsers converts raw user rows; passwords are dropped
func NormalizeUsers(rows []any) []models.User {
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		item, ok := row.(map[string]any)
		if !ok {
			continue
		}
		role := strings.ToLower(pick(item, roleKeys))
		if role == "" {
			role = models.RoleUser
		}
		users = append(users, models.User{
			RecordID:  pick(item, recordIDKeys),
			Email:     pick(item, emailKeys),
			Name:      pick(item, []string{"name", "Name"}),
			Role:      role,
			CreatedAt: pick(item, createdAtKeys),
		})
	}
	return users
}

// NormalizeTotals converts raw daily-total rows
func NormalizeTotals(rows []any) []models.DailyTotal {
	totals := make([]models.DailyTotal, 0, len(rows))
	for _, row := range rows {
		item, ok := row.(map[string]any)
		if !ok {
			continue
		}
		totals = append(totals, models.DailyTotal{
			Date:          normalizeDate(pick(item, dateKeys)),
			UserName:      pick(item, userNameKeys),
			TotalDuration: pick(item, totalKeys),
		})
	}
	return totals
}

// pick returns the first non-empty value among keys, stringified
func pick(item map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := item[k]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func atoiLoose(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}

// normalizeDate folds ISO instants written by the sheet into a local YYYY-MM-DD
func normalizeDate(s string) string {
	if len(s) <= len("2006-01-02") {
		return s
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateString(t.Local())
		}
	}
	return s
}

// normalizeClock folds ISO instants and unpadded times written by the sheet
// into a local HH:MM
func normalizeClock(s string) string {
	if !strings.Contains(s, "T") {
		return models.PadClock(s)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.ClockString(t.Local())
		}
	}
	return s
}
