package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/config"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/logging"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/session"
	"github.com/milk9111/rayfighter/sound"
	"golang.design/x/clipboard"
)

const sampleRate = beep.SampleRate(44100)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.BindFlags(flag.CommandLine)
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	demo := flag.Bool("demo", false, "let the AI play the left side too")
	flag.Parse()

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess, err := session.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	var player fight.Audio = fight.NopAudio{}
	if !cfg.Mute {
		sounds, err := prefabs.LoadSoundsSpec()
		if err != nil {
			logger.Warn("sounds unavailable", "err", err)
		} else {
			player = NewAudio(sound.NewBank(sounds, sampleRate), logger)
		}
	}

	canCopy := true
	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable", "err", err)
		canCopy = false
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth*2, common.BaseHeight*2)
	ebiten.SetWindowTitle("rayfighter")
	if rate := sess.Bundle().Tuning.TickRate; rate > 0 {
		ebiten.SetTPS(rate)
	}

	game, err := NewGame(ctx, sess, GameOptions{
		Audio:     player,
		Autopilot: *demo,
		CanCopy:   canCopy,
		Logger:    logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	err = ebiten.RunGame(game)
	if cerr := sess.Close(); cerr != nil {
		logger.Warn("close session", "err", cerr)
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
