package fighter

import "github.com/milk9111/rayfighter/input"

// PushAction records a submitted action, keeping the newest HistorySize.
func (f *Fighter) PushAction(a input.Action) {
	if f == nil {
		return
	}
	size := f.cfg.HistorySize
	if size <= 0 {
		size = 20
	}
	f.history = append(f.history, a)
	if over := len(f.history) - size; over > 0 {
		f.history = append(f.history[:0], f.history[over:]...)
	}
}

// RecentActions returns a copy of the action history, oldest first.
func (f *Fighter) RecentActions() []input.Action {
	if f == nil || len(f.history) == 0 {
		return nil
	}
	out := make([]input.Action, len(f.history))
	copy(out, f.history)
	return out
}

// ActionRate is the share of recent actions that match any of as.
func (f *Fighter) ActionRate(as ...input.Action) float64 {
	if f == nil || len(f.history) == 0 {
		return 0
	}
	n := 0
	for _, h := range f.history {
		for _, a := range as {
			if h == a {
				n++
				break
			}
		}
	}
	return float64(n) / float64(len(f.history))
}
