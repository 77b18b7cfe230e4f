package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rayfighter/input"
)

type binding struct {
	key     input.Key
	keys    []ebiten.Key
	buttons []ebiten.StandardGamepadButton
}

// Ordered so simultaneous presses reach the mapper deterministically.
var bindings = []binding{
	{key: input.KeyLeft, keys: []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftLeft}},
	{key: input.KeyRight, keys: []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftRight}},
	{key: input.KeyUp, keys: []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp, ebiten.KeySpace}, buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom}},
	{key: input.KeyDown, keys: []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftBottom}},
	{key: input.KeyCrouch, keys: []ebiten.Key{ebiten.KeyC}},
	{key: input.KeyLight, keys: []ebiten.Key{ebiten.KeyJ}, buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightLeft}},
	{key: input.KeyHeavy, keys: []ebiten.Key{ebiten.KeyK}, buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightTop}},
	{key: input.KeyGrab, keys: []ebiten.Key{ebiten.KeyL}, buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightRight}},
	{key: input.KeyConfirm, keys: []ebiten.Key{ebiten.KeyEnter}},
}

func (b binding) pressed(pads []ebiten.GamepadID) bool {
	for _, key := range b.keys {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	for _, id := range pads {
		for _, btn := range b.buttons {
			if ebiten.IsStandardGamepadButtonPressed(id, btn) {
				return true
			}
		}
	}
	return false
}

// pollKeys forwards this tick's key transitions to the mapper.
func pollKeys(m *input.Mapper) {
	pads := ebiten.AppendGamepadIDs(nil)
	for _, b := range bindings {
		k := b.key
		down := b.pressed(pads)
		switch {
		case down && !m.Held(k):
			m.KeyDown(k)
		case !down && m.Held(k):
			m.KeyUp(k)
		}
	}
}
