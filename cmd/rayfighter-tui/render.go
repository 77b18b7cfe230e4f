package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/fighter"
)

const (
	hudRows    = 3
	footerRows = 1
	barCells   = 20
	bodyCols   = 3
	bodyPx     = 84
	crouchPx   = 54
)

var (
	styleHUD   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 90, 110))
	styleFloor = tcell.StyleDefault.Foreground(tcell.NewRGBColor(60, 60, 80))
	styleBlock = tcell.StyleDefault.Foreground(tcell.NewRGBColor(135, 206, 250))
	styleLow   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHP    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

func tcolor(c color.Color) tcell.Color {
	if c == nil {
		return tcell.ColorWhite
	}
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// viewport maps arena pixels onto terminal cells below the HUD.
type viewport struct {
	w, h   int
	ox, oy int
}

func (v viewport) col(x float64) int {
	return int(x/common.BaseWidth*float64(v.w)) + v.ox
}

func (v viewport) row(y float64) int {
	field := max(v.h-hudRows-footerRows, 1)
	return hudRows + int(y/common.BaseHeight*float64(field)) + v.oy
}

func (v viewport) rows(px float64) int {
	field := max(v.h-hudRows-footerRows, 1)
	return max(int(px/common.BaseHeight*float64(field)+0.5), 2)
}

func puts(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func drawArena(s tcell.Screen, v viewport, left, right, floor float64) {
	fy := v.row(floor)
	for x := 0; x < v.w; x++ {
		s.SetContent(x, fy, '▀', nil, styleFloor)
	}
	for y := hudRows; y < fy; y++ {
		s.SetContent(v.col(left), y, '│', nil, styleDim)
		s.SetContent(v.col(right), y, '│', nil, styleDim)
	}
}

func drawFighter(s tcell.Screen, v viewport, f fight.FighterView) {
	crouched := f.Crouching || f.State == fighter.StateCrouch
	px := float64(bodyPx)
	if crouched {
		px = crouchPx
	}
	h := v.rows(px)
	bottom := v.row(f.Y) - 1
	left := v.col(f.X) - bodyCols/2

	body := '█'
	if f.Invisible {
		body = '░'
	}
	style := tcell.StyleDefault.Foreground(tcolor(f.Core))
	if f.State == fighter.StateHit {
		style = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
	for y := bottom - h + 1; y <= bottom; y++ {
		for x := left; x < left+bodyCols; x++ {
			s.SetContent(x, y, body, nil, style)
		}
	}

	glow := tcell.StyleDefault.Foreground(tcolor(f.Glow))
	front := left + bodyCols
	if f.Facing < 0 {
		front = left - 1
	}
	arm := bottom - h/2
	if crouched {
		arm = bottom
	}
	switch f.Attack {
	case fighter.PhaseStartup:
		s.SetContent(front, arm, '-', nil, glow)
	case fighter.PhaseActive:
		fist := '>'
		if f.Facing < 0 {
			fist = '<'
		}
		s.SetContent(front, arm, '=', nil, glow)
		s.SetContent(front+f.Facing, arm, fist, nil, glow)
	}
	if f.Blocking != fighter.BlockNone {
		for y := bottom - h + 1; y <= bottom; y++ {
			s.SetContent(front, y, '▌', nil, styleBlock)
		}
	}
	if f.Shielded {
		s.SetContent(left-1, bottom-h, '(', nil, glow)
		s.SetContent(left+bodyCols, bottom-h, ')', nil, glow)
	}
	if f.Charging {
		cells := int(max(0, min(1, f.ChargePct)) * bodyCols)
		for x := 0; x < cells; x++ {
			s.SetContent(left+x, bottom-h, '▪', nil, glow)
		}
	}
}

func drawProjectiles(s tcell.Screen, v viewport, list []fight.ProjectileView) {
	for _, p := range list {
		s.SetContent(v.col(p.X), v.row(p.Y), '●', nil, tcell.StyleDefault.Foreground(tcolor(p.Color)))
	}
}

// bar renders pct of n cells, filled from the right when mirrored.
func bar(pct float64, n int, mirrored bool) string {
	full := int(max(0, min(1, pct))*float64(n) + 0.5)
	filled := strings.Repeat("█", full)
	empty := strings.Repeat("░", n-full)
	if mirrored {
		return empty + filled
	}
	return filled + empty
}

func drawHUD(s tcell.Screen, w, h int, snap fight.Snapshot, momentumMax float64) {
	hp := func(f fight.FighterView) tcell.Style {
		if f.LastStand {
			return styleLow
		}
		return styleHP
	}
	mMax := max(momentumMax, 1)

	puts(s, 1, 0, bar(snap.P1.HPPct, barCells, false), hp(snap.P1))
	puts(s, w-1-barCells, 0, bar(snap.P2.HPPct, barCells, true), hp(snap.P2))
	puts(s, 1, 1, bar(float64(snap.P1.Momentum)/mMax, barCells, false), tcell.StyleDefault.Foreground(tcolor(snap.P1.Glow)))
	puts(s, w-1-barCells, 1, bar(float64(snap.P2.Momentum)/mMax, barCells, true), tcell.StyleDefault.Foreground(tcolor(snap.P2.Glow)))
	puts(s, 1, 2, snap.P1.Name, styleHUD)
	puts(s, w-1-len(snap.P2.Name), 2, snap.P2.Name, styleHUD)

	timer := fmt.Sprintf("%02.0f", max(snap.Timer, 0))
	puts(s, w/2-1, 0, timer, styleHUD)
	rounds := fmt.Sprintf("%d-%d", snap.Rounds.P1, snap.Rounds.P2)
	puts(s, w/2-len(rounds)/2, 1, rounds, styleHUD)

	footer := fmt.Sprintf("score %d  streak %d  x%.2f", snap.Score, snap.Streak, snap.Mult)
	if snap.Slowmo {
		footer += "  SLOW"
	}
	puts(s, 1, h-1, footer, styleDim)

	if snap.Banner != "" {
		puts(s, w/2-len(snap.Banner)/2, h/3, snap.Banner, styleHUD.Bold(true))
	}
}

// drawPanel draws lines centered in a box over the arena.
func drawPanel(s tcell.Screen, w, h int, lines []string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	top := max(h/2-len(lines)/2-1, 0)
	left := max(w/2-width/2, 0)
	box := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	for y := top; y < top+len(lines)+2; y++ {
		for x := left; x < left+width; x++ {
			s.SetContent(x, y, ' ', nil, box)
		}
	}
	for i, l := range lines {
		puts(s, left+2, top+1+i, l, box)
	}
}
