package movement

import (
	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
	"github.com/sirupsen/logrus"
)

type trait int

const (
	traitSlide trait = iota
	traitWallRun
	traitWallJump
	traitGrapple
)

// MomentumInput is what the engine needs to know about the player each tick.
type MomentumInput struct {
	Direction   Direction
	Sliding     bool
	Grounded    bool
	Grappling   bool
	WallRunning bool
	WallJumping bool
	// SlopeAngle is in degrees, positive while descending.
	SlopeAngle float32
}

func (in MomentumInput) has(t trait) bool {
	switch t {
	case traitSlide:
		return in.Sliding
	case traitWallRun:
		return in.WallRunning
	case traitWallJump:
		return in.WallJumping
	case traitGrapple:
		return in.Grappling
	}
	return false
}

// MomentumEngine accrues the momentum multiplier and owns the focus pool.
type MomentumEngine struct {
	tuning MomentumTuning
	focusT FocusTuning
	ui     UI
	log    logrus.FieldLogger

	bases  *orderedmap.OrderedMap[Direction, BasisPair]
	traits *orderedmap.OrderedMap[trait, BasisPair]

	raw     float32
	basis   float32
	highest float32
	focus   float32

	buffMult float32
	buff     Continuation

	primed       bool
	wasGrounded  bool
	justGrappled bool
	justWallRan  bool

	lastDelta float32
	trend     Trend
}

func NewMomentumEngine(t Tuning, ui UI, log logrus.FieldLogger) *MomentumEngine {
	if ui == nil {
		ui = NopUI{}
	}
	if log == nil {
		log = NewSession(nil).Log
	}
	e := &MomentumEngine{ui: ui, log: log}
	e.SetTuning(t)
	e.Reset()
	return e
}

// SetTuning swaps constants without touching accrued state.
func (e *MomentumEngine) SetTuning(t Tuning) {
	if e == nil {
		return
	}
	e.tuning = t.Momentum
	e.focusT = t.Focus

	d := t.Momentum.Directions
	e.bases = orderedmap.NewOrderedMap[Direction, BasisPair]()
	e.bases.Set(DirectionForward, d.Forward)
	e.bases.Set(DirectionLeft, d.Side)
	e.bases.Set(DirectionRight, d.Side)
	e.bases.Set(DirectionBackward, d.Backward)
	e.bases.Set(DirectionNone, d.Idle)

	// Averaging order matters: later traits weigh more.
	tr := t.Momentum.Traits
	e.traits = orderedmap.NewOrderedMap[trait, BasisPair]()
	e.traits.Set(traitSlide, tr.Slide)
	e.traits.Set(traitWallRun, tr.WallRun)
	e.traits.Set(traitWallJump, tr.WallJump)
	e.traits.Set(traitGrapple, tr.Grapple)

	if e.focus > e.focusT.Max {
		e.focus = e.focusT.Max
	}
}

// Reset restores per-level defaults.
func (e *MomentumEngine) Reset() {
	if e == nil {
		return
	}
	e.raw = 1
	e.basis = 1
	e.highest = 1
	e.focus = e.focusT.Start
	e.buffMult = 1
	e.buff.Cancel()
	e.primed = false
	e.wasGrounded = false
	e.justGrappled = false
	e.justWallRan = false
	e.lastDelta = 0
	e.trend = TrendFlat
	e.ui.FocusChanged(e.focus, e.focusT.Max)
	e.ui.MomentumChanged(e.raw, e.trend)
	e.ui.BuffChanged(false, 1)
}

// Update advances the engine one tick and returns the true multiplier.
func (e *MomentumEngine) Update(in MomentumInput, dt float32) float32 {
	if e == nil {
		return 1
	}

	if e.buff.Tick(dt) {
		e.buffMult = 1
		e.ui.BuffChanged(false, 1)
		e.log.Debug("momentum buff expired")
	}

	// Focus is sampled before this tick's drain.
	hasFocus := e.focus > 0
	drain := e.focusT.Drain
	if in.Sliding {
		drain += e.focusT.SlideDrain
	}
	e.setFocus(e.focus - drain*dt)

	e.basis = common.ExpLerp(e.basis, e.targetBasis(in, hasFocus), e.basisRate(hasFocus), dt)

	if in.Grappling {
		e.justGrappled = true
	}
	if in.WallRunning {
		e.justWallRan = true
	}
	if !e.primed {
		e.primed = true
		e.wasGrounded = in.Grounded
	}
	landed := in.Grounded && !e.wasGrounded
	e.wasGrounded = in.Grounded

	t := e.tuning
	var delta float32
	if hasFocus {
		if in.Direction != DirectionNone && in.Direction != DirectionBackward {
			delta += t.MoveBonus
			if in.Sliding && in.Grounded {
				delta += t.SlideBonus
			}
			if in.SlopeAngle > 0 {
				delta += t.SlopeBase + in.SlopeAngle/t.SlopeDivisor
			}
			if in.Grappling {
				delta += t.GrappleBonus
			}
			if in.WallRunning || in.WallJumping {
				delta += t.WallBonus
			}
		}
		if landed && !in.Sliding && !in.Grappling && !in.WallRunning && !e.justGrappled && !e.justWallRan {
			delta -= t.LandingPenalty
			e.log.WithField("penalty", t.LandingPenalty).Debug("hard landing")
		}
	} else {
		delta = -t.NoFocusPenalty
	}
	if landed {
		e.justGrappled = false
		e.justWallRan = false
	}

	if in.Direction == DirectionNone {
		delta -= t.IdlePenalty
	}
	if in.SlopeAngle < 0 {
		delta -= t.SlopeBase + math32.Abs(in.SlopeAngle)/t.SlopeDivisor
	}

	e.lastDelta = delta
	prev := e.raw
	e.raw += delta / 100 * e.buffMult * dt * t.TimeScale
	if e.raw < 1 {
		e.raw = 1
	}
	if e.raw > e.highest {
		e.highest = e.raw
	}

	switch {
	case e.raw > prev:
		e.trend = TrendUp
	case e.raw < prev:
		e.trend = TrendDown
	default:
		e.trend = TrendFlat
	}

	e.ui.FocusChanged(e.focus, e.focusT.Max)
	e.ui.MomentumChanged(e.raw, e.trend)
	return e.raw * e.basis
}

func (e *MomentumEngine) targetBasis(in MomentumInput, hasFocus bool) float32 {
	target := float32(1)
	if p, ok := e.bases.Get(in.Direction); ok {
		target = p.pick(hasFocus)
	}
	for el := e.traits.Front(); el != nil; el = el.Next() {
		if in.has(el.Key) {
			target = (target + el.Value.pick(hasFocus)) / 2
		}
	}
	return target
}

func (e *MomentumEngine) basisRate(hasFocus bool) float32 {
	if hasFocus {
		return e.tuning.BasisRateFocused
	}
	return e.tuning.BasisRateUnfocused
}

// Buff scales accrual for duration seconds. Multipliers at or below 1 fall
// back to the configured default; a running buff is replaced.
func (e *MomentumEngine) Buff(duration, multiplier float32) {
	if e == nil || duration <= 0 {
		return
	}
	if multiplier <= 1 {
		multiplier = e.tuning.BuffFallback
	}
	e.buff.Restart(duration)
	e.buffMult = multiplier
	e.ui.BuffChanged(true, multiplier)
	e.log.WithFields(logrus.Fields{"duration": duration, "multiplier": multiplier}).Debug("momentum buff started")
}

func (e *MomentumEngine) Focus() float32 {
	if e == nil {
		return 0
	}
	return e.focus
}

func (e *MomentumEngine) AddFocus(amount float32) {
	if e == nil || amount == 0 {
		return
	}
	before := e.focus
	e.setFocus(e.focus + amount)
	if gained := e.focus - before; gained > 0 {
		e.ui.FocusIncreased(gained)
	}
	e.ui.FocusChanged(e.focus, e.focusT.Max)
}

// SetMaxFocus changes the focus cap at runtime. Start and current focus are
// clamped to it.
func (e *MomentumEngine) SetMaxFocus(limit float32) bool {
	if e == nil || limit <= 0 {
		return false
	}
	e.focusT.Max = limit
	if e.focusT.Start > limit {
		e.focusT.Start = limit
	}
	e.setFocus(e.focus)
	e.ui.FocusChanged(e.focus, e.focusT.Max)
	return true
}

// SetStartFocus changes the focus Reset restores.
func (e *MomentumEngine) SetStartFocus(start float32) {
	if e == nil {
		return
	}
	e.focusT.Start = mgl32.Clamp(start, 0, e.focusT.Max)
}

func (e *MomentumEngine) FocusTuning() FocusTuning {
	if e == nil {
		return FocusTuning{}
	}
	return e.focusT
}

// SpendFocus deducts cost, clamped at zero.
func (e *MomentumEngine) SpendFocus(cost float32) {
	if e == nil || cost <= 0 {
		return
	}
	e.setFocus(e.focus - cost)
	e.ui.FocusChanged(e.focus, e.focusT.Max)
}

func (e *MomentumEngine) setFocus(v float32) {
	e.focus = mgl32.Clamp(v, 0, e.focusT.Max)
}

func (e *MomentumEngine) Raw() float32 {
	if e == nil {
		return 1
	}
	return e.raw
}

func (e *MomentumEngine) Multiplier() float32 {
	if e == nil {
		return 1
	}
	return e.raw * e.basis
}

func (e *MomentumEngine) State() MomentumState {
	if e == nil {
		return MomentumState{}
	}
	return MomentumState{
		Raw:            e.raw,
		Basis:          e.basis,
		Highest:        e.highest,
		Focus:          e.focus,
		MaxFocus:       e.focusT.Max,
		BuffMultiplier: e.buffMult,
		BuffRemaining:  e.buff.Remaining(),
		LastDelta:      e.lastDelta,
		Trend:          e.trend,
	}
}
