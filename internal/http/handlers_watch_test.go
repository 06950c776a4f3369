package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestEntryWatchStreamsSnapshots(t *testing.T) {
	s := newTestServer(t)

	happy := createMood(t, s, "Happy", "FFD700")
	do(t, s, http.MethodPost, "/api/entries",
		`{"moodColorId":`+jsonInt(happy)+`,"content":"hello","dateStamp":`+jsonInt(dayOne)+`}`)

	ts := httptest.NewServer(s.Handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/entries/watch?order=date&dir=asc", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", got)
	}

	// the subscription seeds an initial signal, so the first snapshot
	// arrives without any further write
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var sawEvent bool
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: snapshot" {
			sawEvent = true
			continue
		}
		if strings.HasPrefix(line, "data: ") {
			if !sawEvent {
				t.Fatalf("data line before snapshot event: %q", line)
			}
			if !strings.Contains(line, `"content":"hello"`) {
				t.Fatalf("snapshot missing entry payload: %q", line)
			}
			return
		}
	}
	t.Fatalf("stream ended without a snapshot: %v", scanner.Err())
}

func TestMoodWatchRejectsNonGet(t *testing.T) {
	s := newTestServer(t)

	if rec := do(t, s, http.MethodPost, "/api/moods/watch", "{}"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST watch = %d, want 405", rec.Code)
	}
}
