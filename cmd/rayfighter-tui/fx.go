package main

import (
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/rayfighter/combat"
)

type spark struct {
	x, y float64
	life float64
}

// termFX approximates shake, flash and bursts with cell offsets and glyphs.
type termFX struct {
	shakeT float64
	shake  float64
	flashT float64
	sparks []spark
}

func (fx *termFX) Effect(e combat.Effect) {
	switch e.Kind {
	case combat.EffectShake:
		fx.shake = max(fx.shake, e.Magnitude)
		fx.shakeT = max(fx.shakeT, e.Seconds)
	case combat.EffectFlash:
		fx.flashT = max(e.Seconds, 0.1)
	case combat.EffectBurst:
		for range min(max(e.Count, 1), 6) {
			fx.sparks = append(fx.sparks, spark{
				x:    e.X + (rand.Float64()*2-1)*30,
				y:    e.Y - rand.Float64()*40,
				life: 0.25,
			})
		}
	}
}

func (fx *termFX) Update(dt float64) {
	fx.shakeT = max(fx.shakeT-dt, 0)
	if fx.shakeT == 0 {
		fx.shake = 0
	}
	fx.flashT = max(fx.flashT-dt, 0)
	alive := fx.sparks[:0]
	for _, s := range fx.sparks {
		if s.life -= dt; s.life > 0 {
			alive = append(alive, s)
		}
	}
	fx.sparks = alive
}

// Offset is the camera jolt in cells; big shakes move two columns.
func (fx *termFX) Offset() (int, int) {
	if fx.shake <= 0 {
		return 0, 0
	}
	n := 1
	if fx.shake >= 10 {
		n = 2
	}
	return rand.IntN(2*n+1) - n, rand.IntN(3) - 1
}

func (fx *termFX) Draw(s tcell.Screen, v viewport) {
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, sp := range fx.sparks {
		s.SetContent(v.col(sp.x), v.row(sp.y), '*', nil, style)
	}
	if fx.flashT > 0 {
		edge := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		for x := 0; x < v.w; x++ {
			s.SetContent(x, hudRows, '▁', nil, edge)
		}
	}
}
