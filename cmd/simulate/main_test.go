package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/milk9111/bombbreaker/game"
	"github.com/milk9111/bombbreaker/prefabs"
)

func embeddedOnly(t *testing.T) {
	t.Helper()
	prefabs.DiskRoot = ""
	t.Cleanup(func() { prefabs.DiskRoot = "prefabs" })
}

func TestLevelList(t *testing.T) {
	embeddedOnly(t)

	got, err := levelList(" tutorial, ,chain ")
	if err != nil {
		t.Fatalf("level list: %v", err)
	}
	if len(got) != 2 || got[0] != "tutorial" || got[1] != "chain" {
		t.Fatalf("got %v", got)
	}

	all, err := levelList("")
	if err != nil {
		t.Fatalf("level list: %v", err)
	}
	if len(all) < 4 {
		t.Fatalf("embedded levels = %v", all)
	}
}

func TestRunReportsEveryLevel(t *testing.T) {
	embeddedOnly(t)

	cfg := config{
		levels:   []string{"tutorial", "missing", "chain"},
		seed:     7,
		maxTicks: 60 * 60 * 5,
		parallel: 2,
	}
	records, err := run(context.Background(), cfg, "run-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, name := range cfg.levels {
		r := records[i]
		if r.RunID != "run-1" || r.Seed != 7 {
			t.Fatalf("record %d = %+v", i, r)
		}
		if name == "missing" {
			if r.Error == "" {
				t.Fatalf("missing level should report an error")
			}
			continue
		}
		if r.Error != "" || r.Level != name || r.Status == "in_progress" {
			t.Fatalf("record for %s = %+v", name, r)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	embeddedOnly(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config{levels: []string{"tutorial"}, maxTicks: 1000, parallel: 1}
	if _, err := run(ctx, cfg, "run-2"); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestWriteFormats(t *testing.T) {
	records := []record{
		{RunID: "abc", Seed: 1, Result: game.Result{Level: "tutorial", Status: "won", Percent: 90, Stars: 1}},
		{RunID: "abc", Seed: 1, Result: game.Result{Level: "missing"}, Error: "not found"},
	}

	var text bytes.Buffer
	if err := write(&text, records, false); err != nil {
		t.Fatalf("write text: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "tutorial: won 90%") || !strings.HasSuffix(lines[1], "error=not found") {
		t.Fatalf("text output:\n%s", text.String())
	}

	var js bytes.Buffer
	if err := write(&js, records, true); err != nil {
		t.Fatalf("write json: %v", err)
	}
	sc := bufio.NewScanner(&js)
	var n int
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %d: %v", n, err)
		}
		if m["run_id"] != "abc" || m["level"] == nil {
			t.Fatalf("line %d = %v", n, m)
		}
		n++
	}
	if n != 2 {
		t.Fatalf("json lines = %d, want 2", n)
	}
}
