package system

import (
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	logging "github.com/ipfs/go-log/v2"
	"github.com/milk9111/linkpage/common"
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	imagecache "github.com/milk9111/linkpage/ecs/render"
	"golang.org/x/image/font/basicfont"
)

var renderLog = logging.Logger("render")

const (
	stripTransition  = 400 * time.Millisecond
	cardTransition   = 500 * time.Millisecond
	playerPop        = 600 * time.Millisecond
	playerMaskExit   = time.Second
	itemFade         = 300 * time.Millisecond
	hoverTransition  = 350 * time.Millisecond
	loadingBarPeriod = 1200 * time.Millisecond
)

var (
	colorBackground = color.NRGBA{R: 0x05, G: 0x05, B: 0x05, A: 0xff}
	colorCard       = color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	colorPlayer     = color.NRGBA{R: 0x0a, G: 0x0a, B: 0x0a, A: 0xff}
	colorWhite      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorBlack      = color.NRGBA{A: 0xff}
	colorGrid       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x06}
	colorError      = color.NRGBA{R: 0xff, G: 0x44, B: 0x44, A: 0xff}
)

// RenderSystem draws the page from component state. It never mutates the
// world.
type RenderSystem struct {
	face   text.Face
	gate   GateText
	card   *ebiten.Image
	social *ebiten.Image
}

// GateText is the copy shown on the consent gate.
type GateText struct {
	Title string
	Hint  string
}

func NewRenderSystem(gate GateText) *RenderSystem {
	return &RenderSystem{
		face: text.NewGoXFace(basicfont.Face7x13),
		gate: gate,
	}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}
	now := w.Now()
	screen.Fill(colorBackground)
	r.drawGrid(screen, now)

	intro := r.intro(w)
	if intro == nil {
		return
	}
	if intro.Phase == component.IntroGate {
		r.drawGate(screen)
		return
	}

	links := 0
	if list := r.socialList(w); list != nil {
		links = len(list.Links)
	}

	r.drawProfileCard(w, screen, intro, now)
	r.drawSocialCard(w, screen, intro, now)
	r.drawStrip(screen, intro, ColumnRect(links), now)
	r.drawPlayer(w, screen, now)

	if intro.Flag(component.FlagLoading) {
		r.drawLoading(screen, now)
	}
}

func (r *RenderSystem) drawGrid(screen *ebiten.Image, now time.Duration) {
	const cell = 40.0
	offset := math.Mod(float64(now)/float64(time.Second)*8, cell)
	for x := -cell + offset; x < common.BaseWidth; x += cell {
		vector.StrokeLine(screen, float32(x), 0, float32(x), common.BaseHeight, 1, colorGrid, false)
	}
	for y := -cell + offset; y < common.BaseHeight; y += cell {
		vector.StrokeLine(screen, 0, float32(y), common.BaseWidth, float32(y), 1, colorGrid, false)
	}
}

func (r *RenderSystem) drawGate(screen *ebiten.Image) {
	screen.Fill(colorBlack)
	r.drawText(screen, r.gate.Title, common.BaseWidth/2, common.BaseHeight/2-6, colorWhite, text.AlignCenter)
	r.drawText(screen, r.gate.Hint, common.BaseWidth/2, common.BaseHeight-50, withAlpha(colorWhite, 0.6), text.AlignCenter)
}

func (r *RenderSystem) drawLoading(screen *ebiten.Image, now time.Duration) {
	screen.Fill(colorBlack)
	const barW, barH = 192.0, 2.0
	x := (common.BaseWidth - barW) / 2
	y := common.BaseHeight/2 - 12.0
	fillRect(screen, Rect{X: x, Y: y, W: barW, H: barH}, withAlpha(colorWhite, 0.1))

	t := float64(now%loadingBarPeriod) / float64(loadingBarPeriod)
	segW := barW * 0.4
	segX := -segW + t*(barW+segW)
	left := math.Max(segX, 0)
	right := math.Min(segX+segW, barW)
	if right > left {
		fillRect(screen, Rect{X: x + left, Y: y, W: right - left, H: barH}, colorWhite)
	}
	r.drawText(screen, "LOADING", common.BaseWidth/2, y+20, withAlpha(colorWhite, 0.4), text.AlignCenter)
}

// stripShape returns the height fraction of each half and the horizontal
// inset fraction for a strip phase.
func stripShape(p component.IntroPhase) (height, inset float64) {
	switch p {
	case component.IntroStripFull:
		return 0.5, 0
	case component.IntroStripHorizontal, component.IntroDone:
		return 0.5, 0.5
	}
	return 0, 0
}

func (r *RenderSystem) drawStrip(screen *ebiten.Image, intro *component.Intro, col Rect, now time.Duration) {
	if !intro.Flag(component.FlagStrip) || intro.Phase >= component.IntroDone {
		return
	}
	fromH, fromI := stripShape(intro.Phase - 1)
	toH, toI := stripShape(intro.Phase)
	t := common.SweepEase.At(elapsed(now, intro.PhaseAt, stripTransition))
	height := common.Lerp(fromH, toH, t)
	inset := common.Lerp(fromI, toI, t)

	h := col.H * height
	x := col.X + col.W*inset
	wid := col.W * (1 - 2*inset)
	if wid <= 0 || h <= 0 {
		return
	}
	fillRect(screen, Rect{X: x, Y: col.Y, W: wid, H: h}, colorWhite)
	fillRect(screen, Rect{X: x, Y: col.Y + col.H - h, W: wid, H: h}, colorWhite)
}

func (r *RenderSystem) drawProfileCard(w *ecs.World, screen *ebiten.Image, intro *component.Intro, now time.Duration) {
	if !intro.Flag(component.FlagProfileCard) {
		return
	}
	rect := ProfileCardRect()
	r.card = ensureImage(r.card, rect)
	r.card.Clear()
	local := func(in Rect) Rect { return Rect{X: in.X - rect.X, Y: in.Y - rect.Y, W: in.W, H: in.H} }

	fillRect(r.card, Rect{W: rect.W, H: rect.H}, colorCard)
	strokeRect(r.card, Rect{W: rect.W, H: rect.H}, withAlpha(colorWhite, 0.1))

	var profile component.Profile
	if ent, ok := ecs.First(w, component.ProfileComponent.Kind()); ok {
		if p, ok := ecs.Get(w, ent, component.ProfileComponent.Kind()); ok {
			profile = *p
		}
	}

	avatar := local(AvatarRect())
	if img := r.image(profile.Avatar); img != nil {
		op := &ebiten.DrawImageOptions{}
		b := img.Bounds()
		op.GeoM.Scale(avatar.W/float64(b.Dx()), avatar.H/float64(b.Dy()))
		op.GeoM.Translate(avatar.X, avatar.Y)
		r.card.DrawImage(img, op)
	} else {
		fillRect(r.card, avatar, withAlpha(colorWhite, 0.05))
	}
	strokeRect(r.card, avatar, withAlpha(colorWhite, 0.2))
	fillRect(r.card, Rect{X: avatar.X + avatar.W - 16, Y: avatar.Y + avatar.H - 16, W: 12, H: 12}, colorWhite)

	name := local(NameRect(profile.Name))
	ecs.ForEach2(w, component.NameTagComponent.Kind(), component.RevealComponent.Kind(), func(_ ecs.Entity, _ *component.NameTag, rv *component.Reveal) {
		r.drawNameReveal(w, r.card, name, profile.Name, rv, now)
	})

	r.drawText(r.card, profile.Handle, rect.W/2, name.Y+name.H+6, withAlpha(colorWhite, 0.4), text.AlignCenter)
	y := name.Y + name.H + 30
	for _, line := range wrap(profile.Bio, 40) {
		r.drawText(r.card, line, rect.W/2, y, withAlpha(colorWhite, 0.6), text.AlignCenter)
		y += 16
	}

	stats := 0
	ecs.ForEach(w, component.StatComponent.Kind(), func(ecs.Entity, *component.Stat) { stats++ })
	divider := local(StatRect(0, stats))
	fillRect(r.card, Rect{X: 24, Y: divider.Y - 16, W: rect.W - 48, H: 1}, withAlpha(colorWhite, 0.1))
	ecs.ForEach2(w, component.StatComponent.Kind(), component.RevealComponent.Kind(), func(_ ecs.Entity, st *component.Stat, rv *component.Reveal) {
		r.drawStat(r.card, local(StatRect(st.Index, stats)), st, rv, now)
	})

	r.blitCard(screen, r.card, rect, intro.FlagAt[component.FlagProfileCard], now)
}

func (r *RenderSystem) drawNameReveal(w *ecs.World, dst *ebiten.Image, rect Rect, name string, rv *component.Reveal, now time.Duration) {
	p := common.SweepEase.At(rv.SweepProgress(now))
	switch rv.Phase {
	case component.RevealHidden:
		return
	case component.RevealSweeping:
		fillRect(dst, Rect{X: rect.X, Y: rect.Y, W: rect.W * p, H: rect.H}, colorWhite)
		if p >= 1 {
			r.drawText(dst, name, rect.CenterX(), rect.Y+10, colorBlack, text.AlignCenter)
		}
	case component.RevealBlinking:
		fillRect(dst, rect, colorWhite)
		on := true
		if ent, ok := ecs.First(w, component.NameTagComponent.Kind()); ok {
			if b, ok := ecs.Get(w, ent, component.BlinkComponent.Kind()); ok {
				on = b.On
			}
		}
		if on {
			r.drawText(dst, name, rect.CenterX(), rect.Y+10, colorBlack, text.AlignCenter)
		}
	case component.RevealRevealed:
		r.drawText(dst, name, rect.CenterX(), rect.Y+10, colorWhite, text.AlignCenter)
		fillRect(dst, Rect{X: rect.X + rect.W*p, Y: rect.Y, W: rect.W * (1 - p), H: rect.H}, colorWhite)
	}
}

func (r *RenderSystem) drawStat(dst *ebiten.Image, rect Rect, st *component.Stat, rv *component.Reveal, now time.Duration) {
	p := common.SweepEase.At(rv.SweepProgress(now))
	if rv.Revealed() {
		r.drawText(dst, st.Value, rect.CenterX(), rect.Y+6, colorWhite, text.AlignCenter)
		r.drawText(dst, strings.ToUpper(st.Label), rect.CenterX(), rect.Y+26, withAlpha(colorWhite, 0.4), text.AlignCenter)
	}
	switch rv.Phase {
	case component.RevealSweeping, component.RevealBlinking:
		fillRect(dst, Rect{X: rect.X, Y: rect.Y, W: rect.W * p, H: rect.H}, colorWhite)
	case component.RevealRevealed:
		fillRect(dst, Rect{X: rect.X + rect.W*p, Y: rect.Y, W: rect.W * (1 - p), H: rect.H}, colorWhite)
	}
}

func (r *RenderSystem) drawSocialCard(w *ecs.World, screen *ebiten.Image, intro *component.Intro, now time.Duration) {
	if !intro.Flag(component.FlagSocialCard) {
		return
	}
	ent, ok := ecs.First(w, component.SocialListComponent.Kind())
	if !ok {
		return
	}
	list, _ := ecs.Get(w, ent, component.SocialListComponent.Kind())
	rv, ok := ecs.Get(w, ent, component.RevealComponent.Kind())
	if !ok {
		return
	}

	rect := SocialCardRect(len(list.Links))
	r.social = ensureImage(r.social, rect)
	r.social.Clear()
	local := func(in Rect) Rect { return Rect{X: in.X - rect.X, Y: in.Y - rect.Y, W: in.W, H: in.H} }

	fillRect(r.social, Rect{W: rect.W, H: rect.H}, colorCard)
	strokeRect(r.social, Rect{W: rect.W, H: rect.H}, withAlpha(colorWhite, 0.1))

	if rv.Revealed() {
		for i, link := range list.Links {
			start := rv.PhaseAt + time.Duration(i)*list.ItemStagger
			alpha := elapsed(now, start, itemFade)
			if alpha <= 0 {
				continue
			}
			row := local(SocialRowRect(i))
			row.Y += 10 * (1 - alpha)
			r.drawSocialRow(r.social, row, link, i == list.Hovered, list.HoveredAt, alpha, now)
		}
	}

	p := common.SweepEase.At(rv.SweepProgress(now))
	switch rv.Phase {
	case component.RevealSweeping:
		fillRect(r.social, Rect{W: rect.W * p, H: rect.H}, colorWhite)
	case component.RevealRevealed:
		fillRect(r.social, Rect{X: rect.W * p, W: rect.W * (1 - p), H: rect.H}, colorWhite)
	}

	r.blitCard(screen, r.social, rect, intro.FlagAt[component.FlagSocialCard], now)
}

func (r *RenderSystem) drawSocialRow(dst *ebiten.Image, row Rect, link component.SocialLink, hovered bool, hoveredAt time.Duration, alpha float64, now time.Duration) {
	fill := 0.0
	if hovered {
		fill = common.HoverEase.At(elapsed(now, hoveredAt, hoverTransition))
	}
	if fill > 0 {
		half := row.W / 2 * fill
		fillRect(dst, Rect{X: row.X, Y: row.Y, W: half, H: row.H}, withAlpha(colorWhite, alpha))
		fillRect(dst, Rect{X: row.X + row.W - half, Y: row.Y, W: half, H: row.H}, withAlpha(colorWhite, alpha))
	}

	fg := withAlpha(colorWhite, 0.8*alpha)
	iconBg := withAlpha(colorWhite, 0.05*alpha)
	if hovered {
		fg = withAlpha(colorBlack, alpha)
		iconBg = withAlpha(colorBlack, alpha)
	}
	icon := Rect{X: row.X + 8, Y: row.Y + (row.H-40)/2, W: 40, H: 40}
	fillRect(dst, icon, iconBg)
	strokeRect(dst, icon, withAlpha(colorWhite, 0.1*alpha))
	glyph := strings.ToUpper(firstRune(link.Platform))
	iconFg := withAlpha(colorWhite, 0.7*alpha)
	r.drawText(dst, glyph, icon.CenterX(), icon.CenterY()-6, iconFg, text.AlignCenter)

	textX := icon.X + icon.W + 16
	if hovered {
		r.drawText(dst, link.Name, textX, row.Y+6, fg, text.AlignStart)
		r.drawText(dst, link.Handle, textX, row.Y+22, withAlpha(colorBlack, 0.6*alpha), text.AlignStart)
		r.drawText(dst, truncate(link.Bio, 30), textX, row.Y+36, withAlpha(colorBlack, 0.4*alpha), text.AlignStart)
	} else {
		r.drawText(dst, link.Name, textX, row.Y+row.H/2-6, fg, text.AlignStart)
	}
	arrow := withAlpha(colorWhite, 0.2*alpha)
	if hovered {
		arrow = withAlpha(colorBlack, 0.6*alpha)
	}
	r.drawText(dst, "->", row.X+row.W-12, row.Y+row.H/2-6, arrow, text.AlignEnd)
}

func (r *RenderSystem) drawPlayer(w *ecs.World, screen *ebiten.Image, now time.Duration) {
	ent, ok := ecs.First(w, component.PlaybackComponent.Kind())
	if !ok {
		return
	}
	p, _ := ecs.Get(w, ent, component.PlaybackComponent.Kind())
	q, ok := ecs.Get(w, ent, component.TrackQueueComponent.Kind())
	if !ok {
		return
	}
	rv, ok := ecs.Get(w, ent, component.RevealComponent.Kind())
	if !ok {
		return
	}

	switch rv.Phase {
	case component.RevealSweeping:
		const boxW, boxH = 176.0, 48.0
		box := Rect{X: (common.BaseWidth - boxW) / 2, Y: common.BaseHeight - playerBottom - boxH, W: boxW, H: boxH}
		t := common.SweepEase.At(rv.SweepProgress(now))
		x := box.X - box.W + 2*box.W*t
		left := math.Max(x, box.X)
		right := math.Min(x+box.W, box.X+box.W)
		if right > left {
			fillRect(screen, Rect{X: left, Y: box.Y, W: right - left, H: box.H}, colorWhite)
		}
		return
	case component.RevealRevealed:
	default:
		return
	}

	expanded := false
	if ui, ok := ecs.Get(w, ent, component.PlayerUIComponent.Kind()); ok {
		expanded = ui.Hovered
	}
	rect := PlayerRect(expanded, q.Len())

	pop := elapsed(now, rv.PhaseAt, playerPop)
	scale := 0.5 + 0.5*backOut(pop)
	drawn := scaleAbout(rect, scale)
	fillRect(screen, drawn, withAlpha(colorPlayer, pop))
	strokeRect(screen, drawn, withAlpha(colorWhite, 0.1*pop))

	fillRect(screen, Rect{X: drawn.X, Y: drawn.Y, W: drawn.W, H: 2}, withAlpha(colorWhite, 0.05))
	fillRect(screen, Rect{X: drawn.X, Y: drawn.Y, W: drawn.W * p.Progress / 100, H: 2}, colorWhite)

	track := q.Current()
	pad := 12.0
	if expanded {
		pad = 16
	}
	titleY := drawn.Y + drawn.H - playerCollapsedH + pad
	if expanded {
		titleY = drawn.Y + pad + 4
	}
	r.drawText(screen, truncate(track.Title, int((drawn.W-80)/7)), drawn.X+pad, titleY, colorWhite, text.AlignStart)
	r.drawText(screen, truncate(track.Artist, int((drawn.W-80)/7)), drawn.X+pad, titleY+16, withAlpha(colorWhite, 0.5), text.AlignStart)

	btn := Rect{X: drawn.X + drawn.W - pad - 32, Y: titleY - 2, W: 32, H: 32}
	if !expanded {
		fillRect(screen, btn, colorWhite)
		glyph := ">"
		if p.Playing {
			glyph = "||"
		}
		r.drawText(screen, glyph, btn.CenterX(), btn.CenterY()-6, colorBlack, text.AlignCenter)
	}

	if p.Failed(q.Index) {
		fillRect(screen, Rect{X: drawn.X + drawn.W - 6, Y: drawn.Y + 6, W: 4, H: 4}, colorError)
	}
	if ts, ok := ecs.Get(w, ent, component.TrackSweepComponent.Kind()); ok && ts.Changing {
		t := elapsed(now, ts.StartAt, ts.Duration)
		fillRect(screen, Rect{X: drawn.X + drawn.W*t, Y: drawn.Y + drawn.H - 2, W: drawn.W * (1 - t), H: 2}, withAlpha(colorWhite, 0.6))
	}

	exit := common.SweepEase.At(elapsed(now, rv.PhaseAt, playerMaskExit))
	if exit < 1 {
		fillRect(screen, Rect{X: drawn.X + drawn.W*exit, Y: drawn.Y, W: drawn.W * (1 - exit), H: drawn.H}, colorWhite)
	}
}

// blitCard draws an offscreen card with the appear transition: scale from
// 0.75 and fade in.
func (r *RenderSystem) blitCard(screen, card *ebiten.Image, rect Rect, shownAt, now time.Duration) {
	t := common.EaseOut(elapsed(now, shownAt, cardTransition))
	scale := 0.75 + 0.25*t
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-rect.W/2, -rect.H/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(rect.CenterX(), rect.CenterY())
	op.ColorScale.ScaleAlpha(float32(t))
	screen.DrawImage(card, op)
}

func (r *RenderSystem) image(path string) *ebiten.Image {
	if path == "" {
		return nil
	}
	img, err := imagecache.LoadImage(path)
	if err != nil {
		renderLog.Debugw("image unavailable", "path", path, "err", err)
		return nil
	}
	return img
}

func (r *RenderSystem) intro(w *ecs.World) *component.Intro {
	ent, ok := ecs.First(w, component.IntroComponent.Kind())
	if !ok {
		return nil
	}
	in, _ := ecs.Get(w, ent, component.IntroComponent.Kind())
	return in
}

func (r *RenderSystem) socialList(w *ecs.World) *component.SocialList {
	ent, ok := ecs.First(w, component.SocialListComponent.Kind())
	if !ok {
		return nil
	}
	list, _ := ecs.Get(w, ent, component.SocialListComponent.Kind())
	return list
}

func (r *RenderSystem) drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color, align text.Align) {
	if s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = align
	text.Draw(dst, s, r.face, op)
}

func ensureImage(img *ebiten.Image, rect Rect) *ebiten.Image {
	w, h := int(math.Ceil(rect.W)), int(math.Ceil(rect.H))
	if img != nil {
		b := img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			return img
		}
		img.Deallocate()
	}
	return ebiten.NewImage(w, h)
}

func fillRect(dst *ebiten.Image, r Rect, clr color.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	vector.FillRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func strokeRect(dst *ebiten.Image, r Rect, clr color.Color) {
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, clr, false)
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * common.Clamp01(a)))
	return c
}

// elapsed is the linear progress in [0,1] of a transition of length d that
// began at start.
func elapsed(now, start, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return common.Clamp01(float64(now-start) / float64(d))
}

// backOut overshoots slightly before settling, like the player's pop-in.
func backOut(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	t = common.Clamp01(t)
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

func scaleAbout(r Rect, s float64) Rect {
	w, h := r.W*s, r.H*s
	return Rect{X: r.CenterX() - w/2, Y: r.CenterY() - h/2, W: w, H: h}
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	var lines []string
	var cur []rune
	for _, word := range words {
		wr := []rune(word)
		if len(cur) > 0 && len(cur)+1+len(wr) > width {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, wr...)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 3 || len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
