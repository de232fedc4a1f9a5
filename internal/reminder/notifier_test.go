package reminder

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInterval(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 s"},
		{45 * time.Second, "45 s"},
		{30 * time.Minute, "30 m"},
		{90 * time.Minute, "1 h 30 m"},
		{time.Hour + 5*time.Second, "1 h 5 s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2 h 3 m 4 s"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatInterval(tc.in), tc.in.String())
	}
}

func TestCheckInText(t *testing.T) {
	n := CheckIn(90 * time.Minute)
	assert.Equal(t, "Still working?", n.Title)
	assert.Equal(t, "You've been active for 1 h 30 m. Click to check in.", n.Body)
}

func TestPickFallsBackToLog(t *testing.T) {
	unavailable := &recordingNotifier{available: false}
	picked := Pick(nil, unavailable, nil)
	_, ok := picked.(*LogNotifier)
	assert.True(t, ok)
	assert.NoError(t, picked.Notify(context.Background(), CheckIn(time.Minute)))

	available := &recordingNotifier{available: true}
	assert.Same(t, available, Pick(nil, unavailable, available))
}

func TestSlackNotifierAvailability(t *testing.T) {
	assert.False(t, NewSlackNotifier("", "C1").Available())
	assert.False(t, NewSlackNotifier("xoxb-1", "").Available())
	assert.True(t, NewSlackNotifier("xoxb-1", "C1").Available())
}

func TestSlackNotifierPostsMessage(t *testing.T) {
	var channel, text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		channel = r.FormValue("channel")
		text = r.FormValue("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1.0"}`))
	}))
	defer srv.Close()

	n := NewSlackNotifier("xoxb-1", "C1", slack.OptionAPIURL(srv.URL+"/"))
	require.NoError(t, n.Notify(context.Background(), CheckIn(time.Hour)))
	assert.Equal(t, "C1", channel)
	assert.Contains(t, text, "Still working?")
	assert.Contains(t, text, "1 h")
}

func TestBellNotifier(t *testing.T) {
	var out bytes.Buffer
	b := &BellNotifier{Out: &out, FD: ^uintptr(0)}
	assert.False(t, b.Available(), "an invalid descriptor is not a terminal")

	require.NoError(t, b.Notify(context.Background(), CheckIn(time.Minute)))
	assert.Equal(t, "\aStill working? You've been active for 1 m. Click to check in.\n", out.String())
}
