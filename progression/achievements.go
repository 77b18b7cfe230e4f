package progression

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/rayfighter/prefabs"
)

// Event is a progression notification fed to achievement checks. Every event
// carries a "type" key; the rest depends on the type.
type Event map[string]any

func (e Event) Type() string {
	s, _ := e["type"].(string)
	return s
}

type achievementRule struct {
	spec     prefabs.AchievementSpec
	compiled *tengo.Compiled
}

// Checker evaluates achievement predicates written as tengo expressions over
// `save` and `event`. Each predicate is compiled once.
type Checker struct {
	rules []achievementRule
}

func NewChecker(specs []prefabs.AchievementSpec) (*Checker, error) {
	c := &Checker{}
	for _, spec := range specs {
		if spec.ID == "" || spec.Check == "" {
			return nil, fmt.Errorf("progression: achievement %q missing id or check", spec.ID)
		}
		script := tengo.NewScript([]byte("__result := (" + spec.Check + ")"))
		if err := script.Add("save", map[string]interface{}{}); err != nil {
			return nil, fmt.Errorf("progression: achievement %s: %w", spec.ID, err)
		}
		if err := script.Add("event", map[string]interface{}{}); err != nil {
			return nil, fmt.Errorf("progression: achievement %s: %w", spec.ID, err)
		}
		compiled, err := script.Compile()
		if err != nil {
			return nil, fmt.Errorf("progression: compile achievement %s: %w", spec.ID, err)
		}
		c.rules = append(c.rules, achievementRule{spec: spec, compiled: compiled})
	}
	return c, nil
}

// Specs returns the achievement declarations in evaluation order.
func (c *Checker) Specs() []prefabs.AchievementSpec {
	if c == nil {
		return nil
	}
	out := make([]prefabs.AchievementSpec, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r.spec)
	}
	return out
}

// Check returns the ids of rules not yet in unlocked whose predicate holds for
// any of events. Save-only predicates are evaluated even with no events. A
// predicate that fails at runtime counts as false.
func (c *Checker) Check(view map[string]interface{}, events []Event, unlocked map[string]Achievement) []string {
	if c == nil {
		return nil
	}
	if len(events) == 0 {
		events = []Event{{"type": "check"}}
	}
	var out []string
	for _, r := range c.rules {
		if _, ok := unlocked[r.spec.ID]; ok {
			continue
		}
		for _, ev := range events {
			if r.eval(view, ev) {
				out = append(out, r.spec.ID)
				break
			}
		}
	}
	return out
}

func (r achievementRule) eval(view map[string]interface{}, ev Event) bool {
	if err := r.compiled.Set("save", view); err != nil {
		return false
	}
	if err := r.compiled.Set("event", map[string]interface{}(ev)); err != nil {
		return false
	}
	if err := r.compiled.Run(); err != nil {
		return false
	}
	return r.compiled.Get("__result").Bool()
}
