// Package session wires process config, persistence and prefab data into
// ready-to-play matches for the client binaries.
package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/milk9111/rayfighter/ai"
	"github.com/milk9111/rayfighter/config"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/progression"
	"github.com/milk9111/rayfighter/storage"
)

type Session struct {
	cfg     config.Config
	log     *slog.Logger
	bundle  *prefabs.Bundle
	prog    *progression.Progression
	db      *storage.Store
	watcher *prefabs.Watcher
	rng     ai.Rand
}

// Open loads the prefab bundle and the save record. A save file that cannot
// be opened degrades to in-memory progress; only bad prefab data fails.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	prefabs.SetDiskDir(cfg.PrefabsDir)

	bundle, err := prefabs.LoadBundle()
	if err != nil {
		return nil, err
	}
	checker, err := progression.NewChecker(bundle.Achievements)
	if err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg, log: log, bundle: bundle}

	var store progression.Store
	if cfg.SavePath != "" {
		db, err := storage.Open(cfg.SavePath)
		if err != nil {
			log.Warn("save unavailable, progress kept in memory", slog.String("path", cfg.SavePath), slog.Any("err", err))
		} else {
			s.db = db
			store = db
		}
	}
	s.prog = progression.New(ctx, progression.Options{
		Spec:    bundle.Progression,
		Roster:  bundle.Roster.IDs(),
		Checker: checker,
		Dailies: bundle.Daily,
		Store:   store,
		Logger:  log,
	})

	if cfg.Watch && cfg.PrefabsDir != "" {
		if info, err := os.Stat(cfg.PrefabsDir); err == nil && info.IsDir() {
			w, err := prefabs.NewWatcher(cfg.PrefabsDir)
			if err != nil {
				log.Warn("prefab watcher disabled", slog.Any("err", err))
			} else {
				s.watcher = w
			}
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s.rng = ai.NewRand(seed)
	return s, nil
}

func (s *Session) Bundle() *prefabs.Bundle {
	return s.bundle
}

func (s *Session) Progression() *progression.Progression {
	return s.prog
}

func (s *Session) Config() config.Config {
	return s.cfg
}

// Reload picks up prefab files changed on disk since the last call. A bundle
// that fails to load is logged and the previous one kept.
func (s *Session) Reload() bool {
	changed := s.watcher.Drain()
	if len(changed) == 0 {
		return false
	}
	bundle, err := prefabs.LoadBundle()
	if err != nil {
		s.log.Warn("prefab reload failed", slog.Any("files", changed), slog.Any("err", err))
		return false
	}
	s.bundle = bundle
	s.log.Info("prefabs reloaded", slog.Any("files", changed))
	return true
}

// Difficulty is the configured preset, or the default one while the
// configured preset is still locked.
func (s *Session) Difficulty() string {
	d := s.cfg.Difficulty
	if d == "" {
		return s.bundle.Difficulties.Default
	}
	if !s.prog.Unlocked(d) {
		s.log.Warn("difficulty locked", slog.String("difficulty", d), slog.Int("level", s.prog.PlayerLevel()))
		return s.bundle.Difficulties.Default
	}
	return d
}

// Fighter is the configured player fighter, or the first unlocked roster
// entry when it is still locked.
func (s *Session) Fighter() string {
	if s.prog.Unlocked(s.cfg.Fighter) {
		return s.cfg.Fighter
	}
	for _, id := range s.bundle.Roster.IDs() {
		if s.prog.Unlocked(id) {
			s.log.Warn("fighter locked", slog.String("fighter", s.cfg.Fighter), slog.String("using", id))
			return id
		}
	}
	return s.cfg.Fighter
}

// Daily returns today's challenge when daily play is configured.
func (s *Session) Daily() *prefabs.DailySpec {
	if !s.cfg.Daily {
		return nil
	}
	d, ok := s.prog.DailyChallenge()
	if !ok {
		return nil
	}
	return &d
}

type Setup struct {
	Audio     fight.Audio
	Effects   fight.Effects
	Input     *input.Queue
	Autopilot bool
}

// NewFight starts a match with the configured fighters against the session's
// progression record.
func (s *Session) NewFight(ctx context.Context, setup Setup) (*fight.Fight, error) {
	return fight.New(ctx, fight.Options{
		Bundle:      s.bundle,
		P1:          s.Fighter(),
		P2:          s.cfg.Opponent,
		Difficulty:  s.Difficulty(),
		Daily:       s.Daily(),
		Progression: s.prog,
		Input:       setup.Input,
		Autopilot:   setup.Autopilot,
		Audio:       setup.Audio,
		Effects:     setup.Effects,
		Rand:        s.rng,
		Logger:      s.log,
	})
}

func (s *Session) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}
