package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/rayfighter/input"
)

// Terminals report presses and autorepeats but never releases. A key counts
// as held until no repeat arrived for releaseGrace seconds.
const releaseGrace = 0.12

type heldKeys struct {
	mapper *input.Mapper
	now    float64
	until  map[input.Key]float64
}

func newHeldKeys(m *input.Mapper) *heldKeys {
	return &heldKeys{mapper: m, until: map[input.Key]float64{}}
}

func (h *heldKeys) Press(k input.Key) {
	if !h.mapper.Held(k) {
		h.mapper.KeyDown(k)
	}
	h.until[k] = h.now + releaseGrace
}

// Update releases keys whose repeats stopped, then advances the mapper.
func (h *heldKeys) Update(dt float64) {
	h.now += dt
	for _, k := range keyOrder {
		if t, ok := h.until[k]; ok && h.now >= t {
			delete(h.until, k)
			h.mapper.KeyUp(k)
		}
	}
	h.mapper.Update(dt)
}

var keyOrder = []input.Key{
	input.KeyLeft, input.KeyRight, input.KeyUp, input.KeyDown, input.KeyCrouch,
	input.KeyLight, input.KeyHeavy, input.KeyGrab, input.KeyConfirm,
}

var runeKeys = map[rune]input.Key{
	'a': input.KeyLeft,
	'd': input.KeyRight,
	'w': input.KeyUp,
	' ': input.KeyUp,
	's': input.KeyDown,
	'c': input.KeyCrouch,
	'j': input.KeyLight,
	'k': input.KeyHeavy,
	'l': input.KeyGrab,
}

var specialKeys = map[tcell.Key]input.Key{
	tcell.KeyLeft:  input.KeyLeft,
	tcell.KeyRight: input.KeyRight,
	tcell.KeyUp:    input.KeyUp,
	tcell.KeyDown:  input.KeyDown,
	tcell.KeyEnter: input.KeyConfirm,
}

// gameKey maps a terminal key event to a fighter key.
func gameKey(ev *tcell.EventKey) (input.Key, bool) {
	if ev.Key() == tcell.KeyRune {
		k, ok := runeKeys[ev.Rune()]
		return k, ok
	}
	k, ok := specialKeys[ev.Key()]
	return k, ok
}
