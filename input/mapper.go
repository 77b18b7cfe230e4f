package input

// Key is a device-neutral button. Clients translate their own key codes.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyCrouch
	KeyLight
	KeyHeavy
	KeyGrab
	KeyConfirm
	KeyBack
)

const (
	doubleTapWindow = 0.25
	chargeHold      = 0.4
)

// Mapper turns key transitions into actions on a Queue.
//
// Light double-tapped inside 0.25s becomes a grab. Light held for 0.4s starts a
// special charge and releasing it afterwards releases the special. Down held
// repeats down_hold every update.
type Mapper struct {
	queue *Queue

	downAt        map[Key]float64
	lastLightTap  float64
	chargeStarted bool
}

func NewMapper(q *Queue) *Mapper {
	if q == nil {
		q = NewQueue()
	}
	return &Mapper{
		queue:        q,
		downAt:       map[Key]float64{},
		lastLightTap: -999,
	}
}

func (m *Mapper) Queue() *Queue {
	if m == nil {
		return nil
	}
	return m.queue
}

// Held reports whether k is currently down.
func (m *Mapper) Held(k Key) bool {
	if m == nil {
		return false
	}
	_, ok := m.downAt[k]
	return ok
}

// KeyDown registers a press. Repeats while held are ignored.
func (m *Mapper) KeyDown(k Key) {
	if m == nil || m.Held(k) {
		return
	}
	now := m.queue.Now()
	m.downAt[k] = now

	switch k {
	case KeyLeft:
		m.queue.Push(DashLeft)
	case KeyRight:
		m.queue.Push(DashRight)
	case KeyUp:
		m.queue.Push(Jump)
	case KeyCrouch:
		m.queue.Push(Crouch)
	case KeyLight:
		since := now - m.lastLightTap
		m.lastLightTap = now
		if since < doubleTapWindow {
			m.queue.Push(Grab)
		} else {
			m.queue.Push(Light)
		}
	case KeyHeavy:
		m.queue.Push(Heavy)
	case KeyGrab:
		m.queue.Push(Grab)
	case KeyConfirm:
		m.queue.Push(UIConfirm)
	case KeyBack:
		m.queue.Push(UIBack)
	}
}

func (m *Mapper) KeyUp(k Key) {
	if m == nil {
		return
	}
	t0, ok := m.downAt[k]
	if !ok {
		return
	}
	delete(m.downAt, k)

	switch k {
	case KeyDown:
		m.queue.Push(DownRelease)
	case KeyLight:
		if m.queue.Now()-t0 >= chargeHold {
			m.queue.Push(SpecialRelease)
		}
		m.chargeStarted = false
	}
}

// Update advances the clock and emits hold-driven actions.
func (m *Mapper) Update(dt float64) {
	if m == nil {
		return
	}
	m.queue.Update(dt)
	now := m.queue.Now()

	if m.Held(KeyDown) {
		m.queue.Push(DownHold)
	}

	if t0, ok := m.downAt[KeyLight]; ok && !m.chargeStarted && now-t0 >= chargeHold {
		m.chargeStarted = true
		m.queue.Push(SpecialChargeStart)
	}
}
