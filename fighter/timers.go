package fighter

// Timers holds every per-fighter countdown. Frame counters tick once per
// update, second counters by dt.
type Timers struct {
	HitstunF     int
	DashIframesF int
	AttackF      int
	CrouchT      float64
	ShieldT      float64
	ChargeT      float64
	InvisT       float64
}

// Expired reports which timed states ran out during an Advance.
type Expired struct {
	Crouch bool
	Shield bool
	Invis  bool
}

// Advance returns the timers one tick later. Charge time only accumulates
// while charging and the attack frame only while attacking.
func (t Timers) Advance(dt float64, charging, attacking bool) (Timers, Expired) {
	var ex Expired

	if t.HitstunF > 0 {
		t.HitstunF--
	}
	if t.DashIframesF > 0 {
		t.DashIframesF--
	}

	if t.CrouchT > 0 {
		t.CrouchT -= dt
		if t.CrouchT <= 0 {
			t.CrouchT = 0
			ex.Crouch = true
		}
	}

	if t.ShieldT > 0 {
		t.ShieldT -= dt
		if t.ShieldT <= 0 {
			t.ShieldT = 0
			ex.Shield = true
		}
	}

	if t.InvisT > 0 {
		t.InvisT -= dt
		if t.InvisT <= 0 {
			t.InvisT = 0
			ex.Invis = true
		}
	}

	if charging {
		t.ChargeT += dt
	}
	if attacking {
		t.AttackF++
	}

	return t, ex
}
