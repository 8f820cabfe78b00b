package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
)

const volumeStep = 0.1

type InputSystem struct {
	touches []ebiten.TouchID
	keys    []ebiten.Key
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	i.touches = inpututil.AppendJustPressedTouchIDs(i.touches[:0])
	i.keys = inpututil.AppendJustPressedKeys(i.keys[:0])

	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	rightClicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	if len(i.touches) > 0 {
		tx, ty := ebiten.TouchPosition(i.touches[0])
		x, y = float64(tx), float64(ty)
	}

	gesture := component.GestureNone
	switch {
	case clicked || rightClicked:
		gesture = component.GestureClick
	case len(i.touches) > 0:
		gesture = component.GestureTouch
	case len(i.keys) > 0:
		gesture = component.GestureKey
	}

	volume := 0.0
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		volume += volumeStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		volume -= volumeStep
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.Gesture = gesture
		input.PointerX = x
		input.PointerY = y
		input.Clicked = clicked || len(i.touches) > 0
		input.RightClicked = rightClicked
		input.TogglePressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
		input.NextPressed = inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
		input.PrevPressed = inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
		input.MutePressed = inpututil.IsKeyJustPressed(ebiten.KeyM)
		input.VolumeDelta = volume
	})
}
