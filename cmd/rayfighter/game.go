package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/session"
	"golang.design/x/clipboard"
)

type GameOptions struct {
	Audio     fight.Audio
	Autopilot bool
	CanCopy   bool
	Logger    *slog.Logger
}

type Game struct {
	ctx    context.Context
	sess   *session.Session
	opts   GameOptions
	log    *slog.Logger
	frames int

	mapper *input.Mapper
	fight  *fight.Fight
	fx     *screenFX

	paused    bool
	quit      bool
	canCopy   bool
	outcome   *fight.Outcome
	pauseUI   *ebitenui.UI
	resultsUI *ebitenui.UI
}

func NewGame(ctx context.Context, sess *session.Session, opts GameOptions) (*Game, error) {
	g := &Game{
		ctx:     ctx,
		sess:    sess,
		opts:    opts,
		log:     opts.Logger,
		canCopy: opts.CanCopy,
		fx:      newScreenFX(),
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}
	g.pauseUI = NewPauseUI(g)
	if err := g.newMatch(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) newMatch() error {
	g.sess.Reload()
	g.mapper = input.NewMapper(nil)
	f, err := g.sess.NewFight(g.ctx, session.Setup{
		Audio:     g.opts.Audio,
		Effects:   g.fx,
		Input:     g.mapper.Queue(),
		Autopilot: g.opts.Autopilot,
	})
	if err != nil {
		return err
	}
	g.fight = f
	g.outcome = nil
	g.resultsUI = nil
	g.paused = false
	return nil
}

// rematch is wired to menu buttons, which have no error path.
func (g *Game) rematch() {
	if err := g.newMatch(); err != nil {
		g.log.Error("start match", slog.Any("err", err))
		g.quit = true
	}
}

func (g *Game) copyOutcome() {
	if g.outcome == nil {
		return
	}
	data, err := json.MarshalIndent(g.outcome, "", "  ")
	if err != nil {
		g.log.Warn("encode outcome", slog.Any("err", err))
		return
	}
	clipboard.Write(clipboard.FmtText, data)
}

func (g *Game) achievementName(id string) string {
	for _, a := range g.sess.Bundle().Achievements {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}

func (g *Game) tick() float64 {
	return 1 / float64(ebiten.TPS())
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}

	if g.outcome != nil {
		g.resultsUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	dt := g.tick()
	pollKeys(g.mapper)
	g.mapper.Update(dt)
	if out := g.fight.Update(g.ctx, dt); out != nil {
		g.outcome = out
		g.resultsUI = NewResultsUI(g, out)
	}
	g.fx.Update(dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.fight.Snapshot()
	g.fx.owners[s.P1.ID] = s.P1.Glow
	g.fx.owners[s.P2.ID] = s.P2.Glow

	ox, oy := g.fx.Offset()
	drawArena(screen, g.sess.Bundle().Tuning.Arena, ox, oy)
	drawFighter(screen, s.P2, ox, oy)
	drawFighter(screen, s.P1, ox, oy)
	drawProjectiles(screen, s.Projectiles, ox, oy)
	g.fx.Draw(screen, ox, oy)
	drawHUD(screen, s, g.sess.Bundle().Tuning.Momentum.Max)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f", ebiten.ActualFPS()))

	switch {
	case g.outcome != nil:
		g.resultsUI.Draw(screen)
	case g.paused:
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
