package system

import (
	"testing"

	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
)

type linkRecorder struct {
	opened []string
	copied []string
}

func (l *linkRecorder) open(url string) error {
	l.opened = append(l.opened, url)
	return nil
}

func (l *linkRecorder) copyText(text string) error {
	l.copied = append(l.copied, text)
	return nil
}

func TestSocialLinkClicks(t *testing.T) {
	row := SocialRowRect(1)
	x, y := row.CenterX(), row.CenterY()

	tests := []struct {
		name       string
		revealed   bool
		covered    bool
		left       bool
		right      bool
		wantHover  int
		wantOpened []string
		wantCopied []string
	}{
		{name: "hidden_card", left: true, wantHover: -1},
		{name: "hover_only", revealed: true, wantHover: 1},
		{name: "left_click_opens", revealed: true, left: true, wantHover: 1, wantOpened: []string{"https://example.com/b"}},
		{name: "right_click_copies", revealed: true, right: true, wantHover: 1, wantCopied: []string{"@b"}},
		{name: "player_on_top", revealed: true, covered: true, left: true, wantHover: -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			in := &component.Input{PointerX: x, PointerY: y, Clicked: tc.left, RightClicked: tc.right}
			page := ecs.CreateEntity(w)
			_ = ecs.Add(w, page, component.InputComponent.Kind(), in)

			list := &component.SocialList{
				Hovered: -1,
				Links: []component.SocialLink{
					{Name: "A", Href: "https://example.com/a", Handle: "@a"},
					{Name: "B", Href: "https://example.com/b", Handle: "@b"},
				},
			}
			reveal := &component.Reveal{}
			if tc.revealed {
				reveal.Phase = component.RevealRevealed
			}
			social := ecs.CreateEntity(w)
			_ = ecs.Add(w, social, component.SocialListComponent.Kind(), list)
			_ = ecs.Add(w, social, component.RevealComponent.Kind(), reveal)

			if tc.covered {
				q, _ := component.NewTrackQueue(make([]component.Track, 3))
				player := ecs.CreateEntity(w)
				_ = ecs.Add(w, player, component.PlayerUIComponent.Kind(), &component.PlayerUI{Hovered: true})
				_ = ecs.Add(w, player, component.TrackQueueComponent.Kind(), q)
				if !PlayerRect(true, 3).Contains(x, y) {
					t.Fatal("fixture: expanded player should cover the row")
				}
			}

			rec := &linkRecorder{}
			NewSocialLinkSystem(rec.open, rec.copyText).Update(w)

			if list.Hovered != tc.wantHover {
				t.Fatalf("hovered = %d, want %d", list.Hovered, tc.wantHover)
			}
			if !equalStrings(rec.opened, tc.wantOpened) || !equalStrings(rec.copied, tc.wantCopied) {
				t.Fatalf("opened=%v copied=%v", rec.opened, rec.copied)
			}
		})
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlayerRectAnchoredToBottom(t *testing.T) {
	collapsed := PlayerRect(false, 3)
	expanded := PlayerRect(true, 3)
	if collapsed.Y+collapsed.H != expanded.Y+expanded.H {
		t.Fatalf("bottom edges differ: %v vs %v", collapsed.Y+collapsed.H, expanded.Y+expanded.H)
	}
	if expanded.H <= collapsed.H || expanded.W <= collapsed.W {
		t.Fatal("expanded player should be larger")
	}
	if PlayerRect(true, 5).H <= expanded.H {
		t.Fatal("more tracks need more rows")
	}

	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	cases := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{29.9, 29.9, true},
		{30, 20, false},
		{9.9, 20, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.x, c.y); got != c.want {
			t.Fatalf("Contains(%v,%v) = %v", c.x, c.y, got)
		}
	}
}
