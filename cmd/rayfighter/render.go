package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/prefabs"
	"golang.org/x/image/colornames"
)

const (
	bodyW      = 36
	bodyH      = 84
	crouchH    = 54
	barW       = 230
	barH       = 12
	barMargin  = 20
	chargeBarH = 4
)

var (
	background = color.NRGBA{R: 0x10, G: 0x10, B: 0x1c, A: 0xff}
	floorColor = color.NRGBA{R: 0x24, G: 0x24, B: 0x34, A: 0xff}
)

func drawArena(screen *ebiten.Image, arena prefabs.ArenaSpec, ox, oy float64) {
	screen.Fill(background)
	floor := float32(arena.FloorY + oy)
	vector.FillRect(screen, 0, floor, common.BaseWidth, common.BaseHeight-floor, floorColor, false)
	vector.StrokeLine(screen, float32(arena.LeftWall+ox), 0, float32(arena.LeftWall+ox), floor, 2, colornames.Slategray, false)
	vector.StrokeLine(screen, float32(arena.RightWall+ox), 0, float32(arena.RightWall+ox), floor, 2, colornames.Slategray, false)
}

func drawFighter(screen *ebiten.Image, v fight.FighterView, ox, oy float64) {
	h := float64(bodyH)
	if v.Crouching || v.State == fighter.StateCrouch {
		h = crouchH
	}
	x := v.X - bodyW/2 + ox
	y := v.Y - h + oy

	core, glow := v.Core, v.Glow
	if v.Invisible {
		core, glow = fade(core, 0.2), fade(glow, 0.3)
	}
	if v.State == fighter.StateHit {
		core = colornames.White
	}

	vector.FillRect(screen, float32(x), float32(y), bodyW, float32(h), core, false)
	vector.StrokeRect(screen, float32(x), float32(y), bodyW, float32(h), 2, glow, false)

	// fist: out while the attack is live
	reach := 0.0
	switch v.Attack {
	case fighter.PhaseStartup:
		reach = 10
	case fighter.PhaseActive:
		reach = 34
	}
	if reach > 0 {
		fx := v.X + ox + float64(v.Facing)*bodyW/2
		fy := y + h*0.35
		if v.State == fighter.StateCrouch || v.Crouching {
			fy = y + h*0.7
		}
		vector.StrokeLine(screen, float32(fx), float32(fy), float32(fx+float64(v.Facing)*reach), float32(fy), 6, glow, false)
	}

	if v.Blocking != fighter.BlockNone {
		bx := v.X + ox + float64(v.Facing)*(bodyW/2+4)
		vector.FillRect(screen, float32(bx-2), float32(y), 4, float32(h), colornames.Lightskyblue, false)
	}
	if v.Shielded {
		vector.StrokeRect(screen, float32(x-6), float32(y-6), bodyW+12, float32(h+12), 2, fade(glow, 0.7), false)
	}
	if v.Charging {
		pct := max(0, min(1, v.ChargePct))
		vector.FillRect(screen, float32(x), float32(y-10), float32(bodyW*pct), chargeBarH, glow, false)
	}
}

func drawProjectiles(screen *ebiten.Image, list []fight.ProjectileView, ox, oy float64) {
	for _, p := range list {
		r := float32(p.Radius)
		vector.FillRect(screen, float32(p.X+ox)-r, float32(p.Y+oy)-r, 2*r, 2*r, p.Color, false)
	}
}

func drawBar(screen *ebiten.Image, x, y, w, h, pct float64, rightToLeft bool, fill color.Color) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), colornames.Dimgray, false)
	fw := w * max(0, min(1, pct))
	if rightToLeft {
		x += w - fw
	}
	vector.FillRect(screen, float32(x), float32(y), float32(fw), float32(h), fill, false)
}

func hpColor(v fight.FighterView) color.Color {
	if v.LastStand {
		return colornames.Orangered
	}
	return colornames.Limegreen
}

func drawHUD(screen *ebiten.Image, s fight.Snapshot, momentumMax float64) {
	left := float64(barMargin)
	right := float64(common.BaseWidth - barMargin - barW)
	drawBar(screen, left, 20, barW, barH, s.P1.HPPct, false, hpColor(s.P1))
	drawBar(screen, right, 20, barW, barH, s.P2.HPPct, true, hpColor(s.P2))

	mMax := max(momentumMax, 1)
	drawBar(screen, left, 36, barW, 5, float64(s.P1.Momentum)/mMax, false, s.P1.Glow)
	drawBar(screen, right, 36, barW, 5, float64(s.P2.Momentum)/mMax, true, s.P2.Glow)

	ebitenutil.DebugPrintAt(screen, s.P1.Name, int(left), 46)
	ebitenutil.DebugPrintAt(screen, s.P2.Name, int(right+barW)-7*len(s.P2.Name), 46)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%02.0f", max(s.Timer, 0)), common.BaseWidth/2-7, 18)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d - %d", s.Rounds.P1, s.Rounds.P2), common.BaseWidth/2-17, 34)

	hud := fmt.Sprintf("Score: %d    Streak: %d    x%.2f", s.Score, s.Streak, s.Mult)
	ebitenutil.DebugPrintAt(screen, hud, barMargin, common.BaseHeight-24)

	if s.Banner != "" {
		ebitenutil.DebugPrintAt(screen, s.Banner, common.BaseWidth/2-7*len(s.Banner)/2, common.BaseHeight/3)
	}
	if s.Slowmo {
		ebitenutil.DebugPrintAt(screen, "SLOW", common.BaseWidth-barMargin-28, common.BaseHeight-24)
	}
}
