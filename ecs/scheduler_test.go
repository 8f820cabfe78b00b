package ecs

import "testing"

type recordSystem struct {
	name string
	log  *[]string
}

func (s recordSystem) Update(*World) { *s.log = append(*s.log, "update "+s.name) }

type closingSystem struct {
	recordSystem
}

func (s closingSystem) Close() { *s.log = append(*s.log, "close "+s.name) }

func TestSchedulerOrderAndClose(t *testing.T) {
	var log []string
	s := NewScheduler(
		recordSystem{"a", &log},
		nil,
		closingSystem{recordSystem{"b", &log}},
		closingSystem{recordSystem{"c", &log}},
	)
	if n := len(s.Systems()); n != 3 {
		t.Fatalf("systems = %d, want 3", n)
	}

	w := NewWorld()
	s.Update(w)
	s.Close()
	s.Close()
	s.Update(w)

	want := []string{"update a", "update b", "update c", "close c", "close b"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}
