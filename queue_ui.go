package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/linkpage/common"
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/system"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// Rows start below the title block the render system draws for the
// expanded player.
const queueHeaderHeight = 64

// queueState is what the panel shows. The panel is rebuilt whenever it
// changes.
type queueState struct {
	visible bool
	playing bool
	index   int
	tracks  int
}

func (g *Game) syncQueue() {
	state, q := g.currentQueueState()
	if state == g.queueState {
		return
	}
	g.queueState = state
	if !state.visible || q == nil {
		g.queue = nil
		return
	}
	g.queue = NewQueueUI(g, q, state.playing)
}

func (g *Game) currentQueueState() (queueState, *component.TrackQueue) {
	w := g.world
	ent, ok := ecs.First(w, component.PlaybackComponent.Kind())
	if !ok {
		return queueState{}, nil
	}
	p, _ := ecs.Get(w, ent, component.PlaybackComponent.Kind())
	q, ok := ecs.Get(w, ent, component.TrackQueueComponent.Kind())
	if !ok {
		return queueState{}, nil
	}
	r, ok := ecs.Get(w, ent, component.RevealComponent.Kind())
	if !ok || !r.Revealed() {
		return queueState{}, nil
	}
	ui, ok := ecs.Get(w, ent, component.PlayerUIComponent.Kind())
	if !ok || !ui.Hovered {
		return queueState{}, nil
	}
	return queueState{visible: true, playing: p.Playing, index: q.Index, tracks: q.Len()}, q
}

// NewQueueUI builds the expanded player's panel: a transport row followed by
// one button per track.
func NewQueueUI(g *Game, q *component.TrackQueue, playing bool) *ebitenui.UI {
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x0d})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x1a})
	currentImg := imageui.NewNineSliceColor(colornames.White)

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	light := &widget.ButtonTextColor{Idle: colornames.White}
	dark := &widget.ButtonTextColor{Idle: colornames.Black}

	rect := system.PlayerRect(true, q.Len())
	width := int(rect.W) - 32

	button := func(label string, img *imageui.NineSlice, clr *widget.ButtonTextColor, w, h int, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: img, Hover: btnHover, Pressed: btnHover}),
			widget.ButtonOpts.Text(label, &face, clr),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(w, h),
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	toggle := "Play"
	if playing {
		toggle = "Pause"
	}
	transport := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	transport.AddChild(button("<<", btnImg, light, 48, 32, func() { g.music.Prev(g.world) }))
	transport.AddChild(button(toggle, currentImg, dark, 72, 32, func() { g.music.Toggle(g.world) }))
	transport.AddChild(button(">>", btnImg, light, 48, 32, func() { g.music.Next(g.world) }))

	panel := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(width, 0),
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}),
		),
	)
	panel.AddChild(transport)

	for i, track := range q.Tracks {
		i := i
		img, clr := btnImg, light
		if i == q.Index {
			img, clr = currentImg, dark
		}
		label := fmt.Sprintf("%02d  %-24s %5s", i+1, truncateLabel(track.Title, 24), track.DurationLabel)
		panel.AddChild(button(label, img, clr, width, 44, func() { g.music.SetTrack(g.world, i) }))
	}

	// spacer pushes the panel down to the expanded player's body
	spacer := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(common.BaseWidth, int(rect.Y)+queueHeaderHeight)),
	)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
		)),
	)
	root.AddChild(spacer)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}

func truncateLabel(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}
