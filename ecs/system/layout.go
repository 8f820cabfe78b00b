package system

import "github.com/milk9111/linkpage/common"

// Rect is an axis-aligned screen rectangle in layout pixels.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

const (
	columnWidth   = 360.0
	columnTop     = 110.0
	cardGap       = 16.0
	profileHeight = 320.0
	socialPadding = 24.0
	socialRowH    = 56.0

	playerCollapsedW = 200.0
	playerCollapsedH = 56.0
	playerExpandedW  = 340.0
	playerRowH       = 52.0
	playerBottom     = 32.0
)

func columnX() float64 {
	return (common.BaseWidth - columnWidth) / 2
}

// ColumnRect covers both cards; the intro strip animates inside it.
func ColumnRect(links int) Rect {
	social := SocialCardRect(links)
	return Rect{X: columnX(), Y: columnTop, W: columnWidth, H: social.Y + social.H - columnTop}
}

func ProfileCardRect() Rect {
	return Rect{X: columnX(), Y: columnTop, W: columnWidth, H: profileHeight}
}

func AvatarRect() Rect {
	card := ProfileCardRect()
	const size = 96.0
	return Rect{X: card.CenterX() - size/2, Y: card.Y + 32, W: size, H: size}
}

func NameRect(name string) Rect {
	card := ProfileCardRect()
	w := float64(len([]rune(name)))*7 + 24
	if w < 120 {
		w = 120
	}
	return Rect{X: card.CenterX() - w/2, Y: card.Y + 152, W: w, H: 32}
}

// StatRect lays stats out as equal columns along the bottom of the card.
func StatRect(i, n int) Rect {
	card := ProfileCardRect()
	if n <= 0 {
		n = 1
	}
	colW := (card.W - 48) / float64(n)
	return Rect{X: card.X + 24 + float64(i)*colW, Y: card.Y + card.H - 72, W: colW, H: 48}
}

func SocialCardRect(links int) Rect {
	profile := ProfileCardRect()
	return Rect{
		X: profile.X,
		Y: profile.Y + profile.H + cardGap,
		W: columnWidth,
		H: socialPadding*2 + float64(links)*socialRowH,
	}
}

func SocialRowRect(i int) Rect {
	card := SocialCardRect(i + 1)
	return Rect{X: card.X + socialPadding, Y: card.Y + socialPadding + float64(i)*socialRowH, W: card.W - socialPadding*2, H: socialRowH - 4}
}

// PlayerRect is the floating player. Expanded players grow upward from the
// bottom edge.
func PlayerRect(expanded bool, tracks int) Rect {
	w, h := playerCollapsedW, playerCollapsedH
	if expanded {
		w = playerExpandedW
		h = 80 + 32 + float64(tracks)*playerRowH
	}
	return Rect{X: (common.BaseWidth - w) / 2, Y: common.BaseHeight - playerBottom - h, W: w, H: h}
}
