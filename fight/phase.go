package fight

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
)

type Phase string

const (
	PhaseIntro   Phase = "intro"
	PhasePlay    Phase = "play"
	PhaseBetween Phase = "between"
	PhaseEnded   Phase = "ended"
)

const (
	evStart  = "start"
	evFinish = "finish"
	evNext   = "next"
	evEnd    = "end"
)

func newPhaseMachine(log *slog.Logger) *fsm.FSM {
	return fsm.NewFSM(
		string(PhaseIntro),
		fsm.Events{
			{Name: evStart, Src: []string{string(PhaseIntro)}, Dst: string(PhasePlay)},
			{Name: evFinish, Src: []string{string(PhasePlay)}, Dst: string(PhaseBetween)},
			{Name: evNext, Src: []string{string(PhaseBetween)}, Dst: string(PhaseIntro)},
			{Name: evEnd, Src: []string{string(PhaseBetween)}, Dst: string(PhaseEnded)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("phase", slog.String("from", e.Src), slog.String("to", e.Dst))
			},
		},
	)
}

// Phase reports the current match phase.
func (f *Fight) Phase() Phase {
	return Phase(f.phase.Current())
}

// transition fires ev and resets the phase clock.
func (f *Fight) transition(ctx context.Context, ev string, seconds float64) {
	if err := f.phase.Event(ctx, ev); err != nil {
		f.log.Warn("phase transition", slog.String("event", ev), slog.Any("error", err))
		return
	}
	f.phaseT = seconds
}
