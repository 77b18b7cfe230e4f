package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/milk9111/rayfighter/config"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/logging"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/session"
	"github.com/milk9111/rayfighter/sound"
	"golang.design/x/clipboard"
)

const sampleRate = beep.SampleRate(44100)

type app struct {
	ctx    context.Context
	screen tcell.Screen
	sess   *session.Session
	log    *slog.Logger
	audio  fight.Audio

	keys      *heldKeys
	fight     *fight.Fight
	fx        *termFX
	autopilot bool
	canCopy   bool

	paused  bool
	outcome *fight.Outcome
	status  string
}

func (a *app) newMatch() error {
	a.sess.Reload()
	mapper := input.NewMapper(nil)
	a.fx = &termFX{}
	f, err := a.sess.NewFight(a.ctx, session.Setup{
		Audio:     a.audio,
		Effects:   a.fx,
		Input:     mapper.Queue(),
		Autopilot: a.autopilot,
	})
	if err != nil {
		return err
	}
	a.keys = newHeldKeys(mapper)
	a.fight = f
	a.outcome = nil
	a.paused = false
	a.status = ""
	return nil
}

func (a *app) copyOutcome() {
	data, err := json.MarshalIndent(a.outcome, "", "  ")
	if err != nil {
		a.log.Warn("encode outcome", slog.Any("err", err))
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	a.status = "copied"
}

// handleKey returns false when the app should exit.
func (a *app) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}
	menu := a.paused || a.outcome != nil
	if menu && ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case 'q':
			return false
		case 'r':
			if err := a.newMatch(); err != nil {
				a.log.Error("start match", slog.Any("err", err))
				return false
			}
			return true
		case 'y':
			if a.outcome != nil && a.canCopy {
				a.copyOutcome()
			}
			return true
		}
	}
	if ev.Key() == tcell.KeyEscape {
		if a.outcome != nil {
			return false
		}
		a.paused = !a.paused
		return true
	}
	if menu {
		return true
	}
	if k, ok := gameKey(ev); ok {
		a.keys.Press(k)
	}
	return true
}

func (a *app) step(dt float64) {
	if a.paused || a.outcome != nil {
		return
	}
	a.keys.Update(dt)
	if out := a.fight.Update(a.ctx, dt); out != nil {
		a.outcome = out
	}
	a.fx.Update(dt)
}

func (a *app) draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()
	snap := a.fight.Snapshot()
	tuning := a.sess.Bundle().Tuning

	ox, oy := a.fx.Offset()
	v := viewport{w: w, h: h, ox: ox, oy: oy}
	drawArena(s, v, tuning.Arena.LeftWall, tuning.Arena.RightWall, tuning.Arena.FloorY)
	drawFighter(s, v, snap.P2)
	drawFighter(s, v, snap.P1)
	drawProjectiles(s, v, snap.Projectiles)
	a.fx.Draw(s, v)
	drawHUD(s, w, h, snap, tuning.Momentum.Max)

	switch {
	case a.outcome != nil:
		drawPanel(s, w, h, a.resultLines())
	case a.paused:
		drawPanel(s, w, h, []string{"PAUSED", "", "esc resume   r restart   q quit"})
	}
	s.Show()
}

func (a *app) resultLines() []string {
	out := a.outcome
	title := "DEFEAT"
	if out.Win {
		title = "VICTORY"
	}
	lines := []string{
		title,
		fmt.Sprintf("rounds %d-%d  score %d (best %d)", out.Rounds.P1, out.Rounds.P2, out.Score, out.FighterBest),
		fmt.Sprintf("+%d xp  level %d", out.XP, out.PlayerLevel),
	}
	if out.Daily.ID != "" {
		lines = append(lines, fmt.Sprintf("daily %s best %d", out.Daily.ID, out.Daily.Best))
	}
	for _, id := range out.NewAchievements {
		lines = append(lines, "unlocked "+id)
	}
	help := "r rematch   q quit"
	if a.canCopy {
		help = "r rematch   y copy   q quit"
	}
	lines = append(lines, "", help)
	if a.status != "" {
		lines = append(lines, a.status)
	}
	return lines
}

func (a *app) run(tickRate int) {
	dt := 1 / float64(tickRate)
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
		case <-ticker.C:
			a.step(dt)
			a.draw()
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg.BindFlags(flag.CommandLine)
	logPath := flag.String("log-file", "", "write logs here; the terminal is busy drawing")
	demo := flag.Bool("demo", false, "let the AI play the left side too")
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		file, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		logOut = file
	}
	logger, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	sess, err := session.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	a := &app{ctx: ctx, sess: sess, log: logger, audio: fight.NopAudio{}, autopilot: *demo}

	if !cfg.Mute {
		if sounds, err := prefabs.LoadSoundsSpec(); err != nil {
			logger.Warn("sounds unavailable", slog.Any("err", err))
		} else {
			// Non-fatal, game can run without sound
			spk := sound.NewSpeaker(sound.NewBank(sounds, sampleRate))
			if err := spk.Init(); err != nil {
				logger.Warn("audio init failed", slog.Any("err", err))
			} else {
				defer spk.Close()
				a.audio = spk
			}
		}
	}
	a.canCopy = clipboard.Init() == nil

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	a.screen = screen

	if err := a.newMatch(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "start match: %v\n", err)
		os.Exit(1)
	}

	tickRate := sess.Bundle().Tuning.TickRate
	if tickRate <= 0 {
		tickRate = 30
	}
	a.run(tickRate)
}
