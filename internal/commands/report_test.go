package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/models"
)

func TestGetWeekStart(t *testing.T) {
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday morning", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)},
		{"midweek", time.Date(2026, 1, 7, 18, 30, 0, 0, time.UTC)},
		{"sunday night", time.Date(2026, 1, 11, 23, 59, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, getWeekStart(tt.in).Equal(monday), "got %s", getWeekStart(tt.in))
		})
	}
}

func TestBuildTimesheet(t *testing.T) {
	weekStart := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	records := []models.Record{
		{Date: "2026-01-05", Project: "portal", Duration: "02 HRS : 00 MIN : 00 SEC"},
		{Date: "2026-01-06", Project: "portal", Duration: "1:30"},
		{Date: "2026-01-10", Duration: "3600"},
		{Date: "2026-01-12", Project: "portal", Duration: "05 HRS : 00 MIN : 00 SEC"},
		{Date: "2026-01-04", Project: "portal", Duration: "05 HRS : 00 MIN : 00 SEC"},
		{Date: "not a date", Project: "portal", Duration: "1:00"},
	}

	ts := buildTimesheet(records, weekStart)

	require.Len(t, ts.rows, 2)
	assert.InDelta(t, 2.0, ts.rows["portal"][time.Monday], 0.001)
	assert.InDelta(t, 1.5, ts.rows["portal"][time.Tuesday], 0.001)
	assert.InDelta(t, 1.0, ts.rows[noProject][time.Saturday], 0.001)
	assert.Equal(t, []string{"portal", noProject}, ts.keys())
	assert.Equal(t, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
	}, ts.days())

	var out bytes.Buffer
	ts.write(&out)
	text := out.String()
	assert.Contains(t, text, "Sat")
	assert.NotContains(t, text, "Sun")
	assert.Contains(t, text, "Week of Jan 5 to Jan 11, 2026")

	lines := strings.Split(text, "\n")
	var totalLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "Total") {
			totalLine = l
		}
	}
	require.NotEmpty(t, totalLine)
	assert.True(t, strings.HasSuffix(totalLine, "4.5"), "total row %q", totalLine)
}

func TestBuildTimesheetEmptyWeek(t *testing.T) {
	ts := buildTimesheet([]models.Record{
		{Date: "2026-01-06", Project: "portal", Duration: "garbage"},
	}, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, ts.rows)
}
