package movement

import "github.com/go-gl/mathgl/mgl32"

type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "flat"
	}
}

type ReticleState int

const (
	ReticleHidden ReticleState = iota
	// ReticleIdle is shown for a lock that cannot be grappled right now.
	ReticleIdle
	// ReticleReady means a grapple attempt would launch.
	ReticleReady
)

type Reticle struct {
	State  ReticleState
	Screen mgl32.Vec2
}

// UI receives presentation events from the movement core.
type UI interface {
	FocusChanged(focus, max float32)
	FocusIncreased(amount float32)
	MomentumChanged(raw float32, trend Trend)
	BuffChanged(active bool, multiplier float32)
	ActionFailed(action Action)
	ReticleChanged(r Reticle)
}

// NopUI discards every event.
type NopUI struct{}

func (NopUI) FocusChanged(float32, float32)  {}
func (NopUI) FocusIncreased(float32)         {}
func (NopUI) MomentumChanged(float32, Trend) {}
func (NopUI) BuffChanged(bool, float32)      {}
func (NopUI) ActionFailed(Action)            {}
func (NopUI) ReticleChanged(Reticle)         {}
