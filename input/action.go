package input

// Action is a normalized input token consumed by the fight loop.
type Action string

const (
	DashLeft           Action = "dash_left"
	DashRight          Action = "dash_right"
	Jump               Action = "jump"
	Crouch             Action = "crouch"
	DownHold           Action = "down_hold"
	DownRelease        Action = "down_release"
	Light              Action = "light"
	Heavy              Action = "heavy"
	Grab               Action = "grab"
	SpecialChargeStart Action = "special_charge_start"
	SpecialRelease     Action = "special_release"
	UIConfirm          Action = "ui_confirm"
	UIBack             Action = "ui_back"

	// Only produced by the AI.
	Low     Action = "low"
	Special Action = "special"
)

// IsOffense reports whether the action starts an attack or special.
func (a Action) IsOffense() bool {
	switch a {
	case Light, Heavy, Low, Grab, Special:
		return true
	}
	return false
}
