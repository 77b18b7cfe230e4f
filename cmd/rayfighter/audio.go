package main

import (
	"bytes"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/rayfighter/sound"
)

const musicVolume = 0.6

// Audio renders synthesized cues once and replays them through ebiten.
type Audio struct {
	ctx   *audio.Context
	bank  *sound.Bank
	cues  map[string]*audio.Player
	music *audio.Player
	log   *slog.Logger
}

func NewAudio(bank *sound.Bank, log *slog.Logger) *Audio {
	return &Audio{
		ctx:  audio.NewContext(int(bank.Rate())),
		bank: bank,
		cues: map[string]*audio.Player{},
		log:  log,
	}
}

func (a *Audio) Play(key string) {
	p, ok := a.cues[key]
	if !ok {
		// cues are short; two seconds bounds a bad spec
		pcm := sound.PCM16(a.bank.Cue(key), int(a.bank.Rate())*2)
		p = a.ctx.NewPlayerFromBytes(pcm)
		a.cues[key] = p
	}
	if err := p.Rewind(); err != nil {
		a.log.Warn("rewind cue", slog.String("key", key), slog.Any("err", err))
		return
	}
	p.Play()
}

func (a *Audio) PlayMusic(key string) {
	if a.music != nil {
		a.music.Pause()
		a.music = nil
	}
	stream, n, ok := a.bank.MusicPhrase(key)
	if !ok {
		a.log.Debug("no music", slog.String("key", key))
		return
	}
	pcm := sound.PCM16(stream, n)
	loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	p, err := a.ctx.NewPlayer(loop)
	if err != nil {
		a.log.Warn("music player", slog.String("key", key), slog.Any("err", err))
		return
	}
	p.SetVolume(musicVolume)
	p.Play()
	a.music = p
}
