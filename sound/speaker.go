package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Speaker plays cues and music on the default output device.
type Speaker struct {
	mu     sync.Mutex
	bank   *Bank
	mixer  *beep.Mixer
	music  *beep.Ctrl
	active bool
}

func NewSpeaker(bank *Bank) *Speaker {
	return &Speaker{bank: bank, mixer: &beep.Mixer{}}
}

// Init opens the device. Play and PlayMusic are no-ops until it succeeds.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return nil
	}
	rate := s.bank.Rate()
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.active = true
	return nil
}

func (s *Speaker) Play(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	speaker.Lock()
	s.mixer.Add(s.bank.Cue(key))
	speaker.Unlock()
}

func (s *Speaker) PlayMusic(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	stream, ok := s.bank.Music(key)
	speaker.Lock()
	if s.music != nil {
		s.music.Paused = true
		s.music.Streamer = nil
	}
	s.music = nil
	if ok {
		s.music = &beep.Ctrl{Streamer: stream}
		s.mixer.Add(s.music)
	}
	speaker.Unlock()
}

func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.active = false
}
