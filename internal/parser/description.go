package parser

import (
	"regexp"
	"strings"
)

var (
	projectRegex  = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	categoryRegex = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)
)

// ParsedDescription is a work description with its inline metadata pulled out
type ParsedDescription struct {
	Description string
	Project     string
	Category    string
}

// ParseDescription extracts metadata from a work description using natural syntax
// Syntax: "Fixed login redirect @portal #development"
// Only the first @project and #category are used; all tokens are removed from the text.
func ParseDescription(input string) ParsedDescription {
	var result ParsedDescription

	if m := projectRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Project = m[1]
	}
	input = projectRegex.ReplaceAllString(input, "")

	if m := categoryRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Category = m[1]
	}
	input = categoryRegex.ReplaceAllString(input, "")

	result.Description = strings.Join(strings.Fields(input), " ")
	return result
}
