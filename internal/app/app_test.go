package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/miirko99/translation-api/internal/db"
	"github.com/miirko99/translation-api/internal/whitelist"
)

func TestRunExitCodes(t *testing.T) {
	cases := map[string]struct {
		args []string
		want int
	}{
		"no args":           {args: nil, want: 2},
		"help":              {args: []string{"help"}, want: 0},
		"unknown":           {args: []string{"translate"}, want: 2},
		"serve bad flag":    {args: []string{"serve", "--nope"}, want: 2},
		"serve help":        {args: []string{"serve", "-h"}, want: 0},
		"history bad limit": {args: []string{"history", "--limit", "0"}, want: 2},
		"history bad list":  {args: []string{"history", "--list", "voices"}, want: 2},
		"refresh bad flag":  {args: []string{"refresh", "--timeout", "soon"}, want: 2},
		"health help":       {args: []string{"HEALTH", "--help"}, want: 0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Run(tc.args); got != tc.want {
				t.Fatalf("unexpected exit code: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestFormatRefreshResult(t *testing.T) {
	t.Parallel()

	got := formatRefreshResult(whitelist.RefreshResult{
		Trigger:   whitelist.TriggerManual,
		Languages: whitelist.ListResult{Updated: true, Count: 12},
		Domains:   whitelist.ListResult{Err: errors.New("status 503")},
	})
	want := "refresh trigger=manual languages=ok(12) domains=failed(status 503)"
	if got != want {
		t.Fatalf("unexpected summary:\n got %q\nwant %q", got, want)
	}

	if got := formatListResult(whitelist.ListResult{}); got != "skipped" {
		t.Fatalf("unexpected empty result: %q", got)
	}
}

func TestWriteHistory(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	msg := "upstream status 502"
	rows := []db.RefreshRun{
		{
			Trigger:    "scheduled",
			ListKind:   "languages",
			Status:     db.RefreshStatusSucceeded,
			ItemCount:  42,
			StartedAt:  started,
			FinishedAt: started.Add(150 * time.Millisecond),
		},
		{
			Trigger:      "rejection",
			ListKind:     "domains",
			Status:       db.RefreshStatusFailed,
			ErrorMessage: &msg,
			StartedAt:    started,
			FinishedAt:   started.Add(time.Second),
		},
	}

	var buf bytes.Buffer
	writeHistory(&buf, rows)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected line count: got %d want 3\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "STARTED") {
		t.Fatalf("missing header: %q", lines[0])
	}
	for _, want := range []string{"2026-10-19T00:00:00Z", "scheduled", "languages", "succeeded", "42", "150ms"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("row 1 missing %q: %q", want, lines[1])
		}
	}
	if !strings.Contains(lines[2], msg) || !strings.Contains(lines[2], "failed") {
		t.Fatalf("row 2 missing failure details: %q", lines[2])
	}
}
