package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write_yaml", fsnotify.Event{Name: "page.yaml", Op: fsnotify.Write}, true},
		{"create_yml", fsnotify.Event{Name: "a/b.YML", Op: fsnotify.Create}, true},
		{"remove_yaml", fsnotify.Event{Name: "tracks.yaml", Op: fsnotify.Remove}, true},
		{"chmod_yaml", fsnotify.Event{Name: "page.yaml", Op: fsnotify.Chmod}, false},
		{"write_swap", fsnotify.Event{Name: ".page.yaml.swp", Op: fsnotify.Write}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := relevant(tc.ev); got != tc.want {
				t.Fatalf("relevant(%v) = %v, want %v", tc.ev, got, tc.want)
			}
		})
	}
}

func TestSettled(t *testing.T) {
	now := time.Unix(100, 0)
	pending := map[string]time.Time{
		"tracks.yaml": now.Add(-200 * time.Millisecond),
		"page.yaml":   now.Add(-150 * time.Millisecond),
		"fresh.yaml":  now.Add(-10 * time.Millisecond),
	}
	got := settled(pending, now, 150*time.Millisecond)
	if len(got) != 2 || got[0] != "page.yaml" || got[1] != "tracks.yaml" {
		t.Fatalf("settled = %v", got)
	}
}

func TestWatcherCollapsesBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcherSettle(200*time.Millisecond, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	file := filepath.Join(dir, "page.yaml")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(file, []byte("title: t\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case name := <-w.Events:
		if name != "page.yaml" {
			t.Fatalf("event for %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("burst reported twice, second for %q", name)
	case <-time.After(500 * time.Millisecond):
	}
}
