package main

import (
	"image/color"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/rayfighter/combat"
	"github.com/milk9111/rayfighter/common"
)

type particle struct {
	x, y   float64
	vx, vy float64
	life   float64
	c      color.Color
}

// screenFX turns combat effects into camera shake, flashes and sparks.
type screenFX struct {
	shake, shakeT float64
	flashT        float64
	flashMax      float64
	flash         color.Color
	particles     []particle
	// glow colors by fighter id, refreshed every draw
	owners map[string]color.Color
}

func newScreenFX() *screenFX {
	return &screenFX{owners: map[string]color.Color{}}
}

func (fx *screenFX) colorOf(owner string) color.Color {
	if c, ok := fx.owners[owner]; ok {
		return c
	}
	return color.White
}

func (fx *screenFX) Effect(e combat.Effect) {
	switch e.Kind {
	case combat.EffectShake:
		fx.shake = max(fx.shake, e.Magnitude)
		fx.shakeT = max(fx.shakeT, e.Seconds)
	case combat.EffectFlash:
		fx.flash = fx.colorOf(e.Owner)
		fx.flashT = max(e.Seconds, 0.1)
		fx.flashMax = fx.flashT
	case combat.EffectBurst:
		c := fx.colorOf(e.Owner)
		for range max(e.Count, 1) {
			fx.particles = append(fx.particles, particle{
				x:    e.X,
				y:    e.Y,
				vx:   (rand.Float64()*2 - 1) * 180,
				vy:   -rand.Float64() * 220,
				life: 0.3 + rand.Float64()*0.3,
				c:    c,
			})
		}
	}
}

func (fx *screenFX) Update(dt float64) {
	fx.shakeT = max(fx.shakeT-dt, 0)
	if fx.shakeT == 0 {
		fx.shake = 0
	}
	fx.flashT = max(fx.flashT-dt, 0)

	alive := fx.particles[:0]
	for _, p := range fx.particles {
		p.life -= dt
		if p.life <= 0 {
			continue
		}
		p.vy += 600 * dt
		p.x += p.vx * dt
		p.y += p.vy * dt
		alive = append(alive, p)
	}
	fx.particles = alive
}

// Offset is this frame's camera shake.
func (fx *screenFX) Offset() (float64, float64) {
	if fx.shake <= 0 {
		return 0, 0
	}
	return (rand.Float64()*2 - 1) * fx.shake, (rand.Float64()*2 - 1) * fx.shake
}

func (fx *screenFX) Draw(screen *ebiten.Image, ox, oy float64) {
	for _, p := range fx.particles {
		vector.FillRect(screen, float32(p.x+ox-2), float32(p.y+oy-2), 4, 4, p.c, false)
	}
	if fx.flashT > 0 && fx.flash != nil {
		alpha := 0.6 * fx.flashT / fx.flashMax
		vector.FillRect(screen, 0, 0, common.BaseWidth, common.BaseHeight, fade(fx.flash, alpha), false)
	}
}

// fade scales c's opacity by alpha.
func fade(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A) * max(0, min(1, alpha)))
	return n
}
