package ecs

import (
	"sort"
	"testing"
	"time"

	"github.com/milk9111/linkpage/ecs/component"
)

type (
	volume float64
	title  string
)

var (
	volumeKind = component.NewComponentKind[volume]()
	titleKind  = component.NewComponentKind[title]()
)

func intPtr(i int) *int {
	return &i
}

func sorted(ents []Entity) []Entity {
	out := append([]Entity(nil), ents...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sameEntities(t *testing.T, got, want []Entity) {
	t.Helper()
	got, want = sorted(got), sorted(want)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEntitiesAfterDestroy(t *testing.T) {
	tests := []struct {
		name    string
		create  int
		destroy []int
	}{
		{name: "empty"},
		{name: "gate_only", create: 1},
		{name: "page_minus_middle", create: 5, destroy: []int{2}},
		{name: "page_minus_ends", create: 5, destroy: []int{0, 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld()
			var all []Entity
			for i := 0; i < tc.create; i++ {
				all = append(all, CreateEntity(w))
			}
			gone := make(map[Entity]bool)
			for _, i := range tc.destroy {
				if !DestroyEntity(w, all[i]) {
					t.Fatalf("destroy %v failed", all[i])
				}
				gone[all[i]] = true
			}
			var want []Entity
			for _, e := range all {
				if IsAlive(w, e) == gone[e] {
					t.Fatalf("%v alive=%v after destroy=%v", e, IsAlive(w, e), gone[e])
				}
				if !gone[e] {
					want = append(want, e)
				}
			}
			sameEntities(t, Entities(w), want)
		})
	}
}

func TestAddGetRemove(t *testing.T) {
	w := NewWorld()
	player := CreateEntity(w)
	gate := CreateEntity(w)

	v := volume(0.6)
	if err := Add(w, player, volumeKind, &v); err != nil {
		t.Fatal(err)
	}
	tt := title("Konnichiwa")
	if err := Add(w, gate, titleKind, &tt); err != nil {
		t.Fatal(err)
	}

	if got, ok := Get(w, player, volumeKind); !ok || *got != 0.6 {
		t.Fatalf("player volume = %v, %v", got, ok)
	}
	if got, ok := Get(w, player, volumeKind); ok {
		*got = 0.2
	}
	if got, _ := Get(w, player, volumeKind); *got != 0.2 {
		t.Fatalf("Get should hand out the stored pointer, have %v", *got)
	}
	if Has(w, gate, volumeKind) || !Has(w, gate, titleKind) {
		t.Fatal("gate components mixed up")
	}

	replaced := volume(1)
	if err := Add(w, player, volumeKind, &replaced); err != nil {
		t.Fatal(err)
	}
	if got, _ := Get(w, player, volumeKind); *got != 1 {
		t.Fatalf("re-adding should replace, have %v", *got)
	}

	if !Remove(w, player, volumeKind) {
		t.Fatal("remove failed")
	}
	if Remove(w, player, volumeKind) {
		t.Fatal("second remove should report false")
	}
	if _, ok := Get(w, player, volumeKind); ok {
		t.Fatal("removed component still present")
	}
	if Remove(w, gate, volumeKind) {
		t.Fatal("removing an absent component should report false")
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	a, b, c := CreateEntity(w), CreateEntity(w), CreateEntity(w)
	for _, e := range []Entity{a, c} {
		v := volume(1)
		if err := Add(w, e, volumeKind, &v); err != nil {
			t.Fatal(err)
		}
	}

	var seen []Entity
	ForEach(w, volumeKind, func(e Entity, v *volume) {
		seen = append(seen, e)
		// c is destroyed before the walk reaches it
		if e == a {
			DestroyEntity(w, c)
		}
	})
	if len(seen) != 1 || seen[0] != a {
		t.Fatalf("walk = %v, want only %v (%v has no volume, %v was destroyed)", seen, a, b, c)
	}
}

func TestForEach2(t *testing.T) {
	tests := []struct {
		name   string
		volume []int
		title  []int
		kill   []int
		want   []int
	}{
		{name: "intersection", volume: []int{0, 1}, title: []int{1, 2}, want: []int{1}},
		{name: "both_on_all", volume: []int{0, 1, 2}, title: []int{0, 1, 2}, want: []int{0, 1, 2}},
		{name: "dead_skipped", volume: []int{0, 1}, title: []int{0, 1}, kill: []int{0}, want: []int{1}},
		{name: "missing_store", volume: []int{0, 1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld()
			ents := []Entity{CreateEntity(w), CreateEntity(w), CreateEntity(w)}
			for _, i := range tc.volume {
				v := volume(i)
				if err := Add(w, ents[i], volumeKind, &v); err != nil {
					t.Fatal(err)
				}
			}
			for _, i := range tc.title {
				s := title("t")
				if err := Add(w, ents[i], titleKind, &s); err != nil {
					t.Fatal(err)
				}
			}
			for _, i := range tc.kill {
				DestroyEntity(w, ents[i])
			}

			var got []Entity
			ForEach2(w, volumeKind, titleKind, func(e Entity, _ *volume, _ *title) {
				got = append(got, e)
			})
			var want []Entity
			for _, i := range tc.want {
				want = append(want, ents[i])
			}
			sameEntities(t, got, want)
		})
	}
}


func TestStaleHandle(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if !DestroyEntity(w, old) {
		t.Fatal("destroy failed")
	}
	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected id reuse, got %v after %v", reused, old)
	}
	if reused == old {
		t.Fatal("reused handle should carry a new generation")
	}
	if IsAlive(w, old) {
		t.Fatal("stale handle reported alive")
	}
	if err := Add(w, old, k, intPtr(1)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if DestroyEntity(w, old) {
		t.Fatal("destroying a stale handle should fail")
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	tests := []struct {
		name string
		err  error
		add  func() error
	}{
		{"nil_value", component.ErrNilComponent, func() error {
			return Add(w, e, component.NewComponentKind[int](), nil)
		}},
		{"zero_kind", component.ErrInvalidComponentKind, func() error {
			return Add(w, e, component.ComponentKind[int]{}, intPtr(1))
		}},
		{"nil_world", component.ErrEntityNotAlive, func() error {
			return Add(nil, e, component.NewComponentKind[int](), intPtr(1))
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.add(); err != tc.err {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

type releaseProbe struct {
	released int
}

func (r *releaseProbe) Release() { r.released++ }

func TestDestroyReleasesAndCancels(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[releaseProbe]()

	e := CreateEntity(w)
	other := CreateEntity(w)
	probe := &releaseProbe{}
	if err := Add(w, e, k, probe); err != nil {
		t.Fatal(err)
	}

	var fired []string
	w.After(e, 10*time.Millisecond, func() { fired = append(fired, "owned") })
	w.After(other, 10*time.Millisecond, func() { fired = append(fired, "other") })

	DestroyEntity(w, e)
	if probe.released != 1 {
		t.Fatalf("expected one release, got %d", probe.released)
	}

	w.Tick(20 * time.Millisecond)
	if len(fired) != 1 || fired[0] != "other" {
		t.Fatalf("expected only the surviving owner's timer, got %v", fired)
	}
	if w.Now() != 20*time.Millisecond || w.Delta() != 20*time.Millisecond {
		t.Fatalf("clock now=%v delta=%v", w.Now(), w.Delta())
	}
}

func TestFirstSkipsRemoved(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	if _, ok := First(w, k); ok {
		t.Fatal("expected no entity in empty world")
	}
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	if err := Add(w, e1, k, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e2, k, intPtr(2)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, e1)
	got, ok := First(w, k)
	if !ok || got != e2 {
		t.Fatalf("expected e2, got %v ok=%v", got, ok)
	}
}

type describeProbe struct{}

func TestDescribe(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	probe := component.NewComponentKind[describeProbe]()
	if err := Add(w, e, probe, &describeProbe{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := Add(w, e, component.NewComponentKind[int](), intPtr(1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	got := Describe(w, e)
	want := []string{"describeProbe", "int"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if probe.String() != "describeProbe" {
		t.Fatalf("kind string = %q", probe.String())
	}
	if s := (component.ComponentKind[int]{}).String(); s != "<invalid>" {
		t.Fatalf("zero kind string = %q", s)
	}

	DestroyEntity(w, e)
	if got := Describe(w, e); got != nil {
		t.Fatalf("dead entity described as %v", got)
	}
}

func TestEntityString(t *testing.T) {
	w := NewWorld()
	first := CreateEntity(w)
	if first.String() != "1/0" {
		t.Fatalf("first = %s", first)
	}
	DestroyEntity(w, first)
	reused := CreateEntity(w)
	if reused.String() != "1/1" {
		t.Fatalf("reused = %s", reused)
	}
	if Entity(0).Valid() {
		t.Fatal("zero entity is valid")
	}
}
