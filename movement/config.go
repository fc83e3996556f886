package movement

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrMissingBody   = errors.New("movement: body is nil")
	ErrMissingProbe  = errors.New("movement: probe is nil")
	ErrMissingView   = errors.New("movement: view is nil")
	ErrInvalidTuning = errors.New("movement: invalid tuning")
)

// Vec3Spec is the YAML form of a vector.
type Vec3Spec struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// BasisPair holds the value used with focus and the value used without.
type BasisPair struct {
	Focused   float32 `yaml:"focused"`
	Unfocused float32 `yaml:"unfocused"`
}

func (p BasisPair) pick(hasFocus bool) float32 {
	if hasFocus {
		return p.Focused
	}
	return p.Unfocused
}

type FocusTuning struct {
	Start        float32 `yaml:"start"`
	Max          float32 `yaml:"max"`
	Drain        float32 `yaml:"drain"`
	SlideDrain   float32 `yaml:"slide_drain"`
	HitReward    float32 `yaml:"hit_reward"`
	GrappleCost  float32 `yaml:"grapple_cost"`
	WallJumpCost float32 `yaml:"wall_jump_cost"`
}

type DirectionBasis struct {
	Forward  BasisPair `yaml:"forward"`
	Side     BasisPair `yaml:"side"`
	Backward BasisPair `yaml:"backward"`
	Idle     BasisPair `yaml:"idle"`
}

type TraitBasis struct {
	Slide    BasisPair `yaml:"slide"`
	WallRun  BasisPair `yaml:"wall_run"`
	WallJump BasisPair `yaml:"wall_jump"`
	Grapple  BasisPair `yaml:"grapple"`
}

type MomentumTuning struct {
	Directions         DirectionBasis `yaml:"directions"`
	Traits             TraitBasis     `yaml:"traits"`
	BasisRateFocused   float32        `yaml:"basis_rate_focused"`
	BasisRateUnfocused float32        `yaml:"basis_rate_unfocused"`

	MoveBonus      float32 `yaml:"move_bonus"`
	SlideBonus     float32 `yaml:"slide_bonus"`
	SlopeBase      float32 `yaml:"slope_base"`
	SlopeDivisor   float32 `yaml:"slope_divisor"`
	GrappleBonus   float32 `yaml:"grapple_bonus"`
	WallBonus      float32 `yaml:"wall_bonus"`
	LandingPenalty float32 `yaml:"landing_penalty"`
	NoFocusPenalty float32 `yaml:"no_focus_penalty"`
	IdlePenalty    float32 `yaml:"idle_penalty"`

	BuffFallback float32 `yaml:"buff_fallback"`
	TimeScale    float32 `yaml:"time_scale"`
}

type MovementTuning struct {
	BaseSpeed        float32 `yaml:"base_speed"`
	JumpForce        float32 `yaml:"jump_force"`
	InAirMultiplier  float32 `yaml:"in_air_multiplier"`
	ConveyorDecay    float32 `yaml:"conveyor_decay"`
	SlideHeightScale float32 `yaml:"slide_height_scale"`
	// FlatSlopeAngle is the angle in degrees below which ground counts as flat.
	FlatSlopeAngle float32 `yaml:"flat_slope_angle"`
}

type ProbeTuning struct {
	GroundRadius    float32 `yaml:"ground_radius"`
	GroundSkin      float32 `yaml:"ground_skin"`
	GroundRayLength float32 `yaml:"ground_ray_length"`
	WallOffset      float32 `yaml:"wall_offset"`
	WallRadius      float32 `yaml:"wall_radius"`
	WallHeight      float32 `yaml:"wall_height"`
}

type WallRunTuning struct {
	GravityMax       float32  `yaml:"gravity_max"`
	GravityRamp      float32  `yaml:"gravity_ramp"`
	InputRampDivisor float32  `yaml:"input_ramp_divisor"`
	JumpWeights      Vec3Spec `yaml:"jump_weights"`
	DecayRate        float32  `yaml:"decay_rate"`
	Terminal         float32  `yaml:"terminal"`
	ClearThreshold   float32  `yaml:"clear_threshold"`
}

type GrappleTuning struct {
	DetectRange     float32  `yaml:"detect_range"`
	Range           float32  `yaml:"range"`
	Speed           float32  `yaml:"speed"`
	ArrivalDistance float32  `yaml:"arrival_distance"`
	Offset          Vec3Spec `yaml:"offset"`
	ConeHalfAngle   float32  `yaml:"cone_half_angle"`
	// MaxHomingTime ends a grapple that has not arrived after this many
	// seconds, for example when something blocks the path.
	MaxHomingTime float32 `yaml:"max_homing_time"`
}

type CombatTuning struct {
	AttackDuration float32 `yaml:"attack_duration"`
	AttackDamage   float32 `yaml:"attack_damage"`
}

// Tuning is every constant the movement core reads.
type Tuning struct {
	Focus    FocusTuning    `yaml:"focus"`
	Momentum MomentumTuning `yaml:"momentum"`
	Movement MovementTuning `yaml:"movement"`
	Probes   ProbeTuning    `yaml:"probes"`
	WallRun  WallRunTuning  `yaml:"wall_run"`
	Grapple  GrappleTuning  `yaml:"grapple"`
	Combat   CombatTuning   `yaml:"combat"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Focus: FocusTuning{
			Start:        0,
			Max:          25,
			Drain:        2,
			SlideDrain:   1.5,
			HitReward:    18,
			GrappleCost:  5,
			WallJumpCost: 2.5,
		},
		Momentum: MomentumTuning{
			Directions: DirectionBasis{
				Forward:  BasisPair{Focused: 1.2, Unfocused: 1.0},
				Side:     BasisPair{Focused: 1.0, Unfocused: 0.8},
				Backward: BasisPair{Focused: 0.8, Unfocused: 0.6},
				Idle:     BasisPair{Focused: 1.0, Unfocused: 1.0},
			},
			Traits: TraitBasis{
				Slide:    BasisPair{Focused: 1.5, Unfocused: 0.25},
				WallRun:  BasisPair{Focused: 1.75, Unfocused: 1.75},
				WallJump: BasisPair{Focused: 1.5, Unfocused: 1.5},
				Grapple:  BasisPair{Focused: 2.0, Unfocused: 2.0},
			},
			BasisRateFocused:   15,
			BasisRateUnfocused: 5,
			MoveBonus:          1,
			SlideBonus:         4,
			SlopeBase:          6,
			SlopeDivisor:       15,
			GrappleBonus:       16,
			WallBonus:          2,
			LandingPenalty:     20,
			NoFocusPenalty:     15,
			IdlePenalty:        10,
			BuffFallback:       1.5,
			TimeScale:          1,
		},
		Movement: MovementTuning{
			BaseSpeed:        5,
			JumpForce:        4.8,
			InAirMultiplier:  0.5,
			ConveyorDecay:    2,
			SlideHeightScale: 0.5,
			FlatSlopeAngle:   1,
		},
		Probes: ProbeTuning{
			GroundRadius:    0.35,
			GroundSkin:      0.1,
			GroundRayLength: 1.2,
			WallOffset:      0.45,
			WallRadius:      0.25,
			WallHeight:      1.0,
		},
		WallRun: WallRunTuning{
			GravityMax:       6,
			GravityRamp:      0.1,
			InputRampDivisor: 3,
			JumpWeights:      Vec3Spec{X: 1, Y: 1, Z: 1},
			DecayRate:        3,
			Terminal:         -3,
			ClearThreshold:   -1,
		},
		Grapple: GrappleTuning{
			DetectRange:     20,
			Range:           10,
			Speed:           30,
			ArrivalDistance: 1,
			Offset:          Vec3Spec{Y: 0.1},
			ConeHalfAngle:   60,
			MaxHomingTime:   1,
		},
		Combat: CombatTuning{
			AttackDuration: 0.4,
			AttackDamage:   10,
		},
	}
}

func (t Tuning) Validate() error {
	positive := []struct {
		name  string
		value float32
	}{
		{"focus.max", t.Focus.Max},
		{"momentum.slope_divisor", t.Momentum.SlopeDivisor},
		{"momentum.time_scale", t.Momentum.TimeScale},
		{"momentum.basis_rate_focused", t.Momentum.BasisRateFocused},
		{"momentum.basis_rate_unfocused", t.Momentum.BasisRateUnfocused},
		{"movement.base_speed", t.Movement.BaseSpeed},
		{"movement.conveyor_decay", t.Movement.ConveyorDecay},
		{"movement.jump_force", t.Movement.JumpForce},
		{"movement.slide_height_scale", t.Movement.SlideHeightScale},
		{"probes.ground_radius", t.Probes.GroundRadius},
		{"probes.ground_ray_length", t.Probes.GroundRayLength},
		{"probes.wall_offset", t.Probes.WallOffset},
		{"probes.wall_radius", t.Probes.WallRadius},
		{"wall_run.input_ramp_divisor", t.WallRun.InputRampDivisor},
		{"wall_run.decay_rate", t.WallRun.DecayRate},
		{"grapple.detect_range", t.Grapple.DetectRange},
		{"grapple.range", t.Grapple.Range},
		{"grapple.speed", t.Grapple.Speed},
		{"grapple.max_homing_time", t.Grapple.MaxHomingTime},
		{"combat.attack_duration", t.Combat.AttackDuration},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidTuning, p.name, p.value)
		}
	}

	if t.Movement.InAirMultiplier < 0 {
		return fmt.Errorf("%w: movement.in_air_multiplier must not be negative", ErrInvalidTuning)
	}
	if t.Focus.Start < 0 || t.Focus.Start > t.Focus.Max {
		return fmt.Errorf("%w: focus.start %v outside [0, %v]", ErrInvalidTuning, t.Focus.Start, t.Focus.Max)
	}
	if t.Focus.GrappleCost < 0 || t.Focus.WallJumpCost < 0 {
		return fmt.Errorf("%w: action costs must not be negative", ErrInvalidTuning)
	}
	if t.Grapple.Range > t.Grapple.DetectRange {
		return fmt.Errorf("%w: grapple.range %v exceeds detect_range %v", ErrInvalidTuning, t.Grapple.Range, t.Grapple.DetectRange)
	}
	if t.Grapple.ArrivalDistance < 0 {
		return fmt.Errorf("%w: grapple.arrival_distance must not be negative", ErrInvalidTuning)
	}
	if t.Grapple.ConeHalfAngle <= 0 || t.Grapple.ConeHalfAngle >= 180 {
		return fmt.Errorf("%w: grapple.cone_half_angle %v outside (0, 180)", ErrInvalidTuning, t.Grapple.ConeHalfAngle)
	}
	if t.WallRun.Terminal >= t.WallRun.ClearThreshold {
		return fmt.Errorf("%w: wall_run.terminal %v must be below clear_threshold %v", ErrInvalidTuning, t.WallRun.Terminal, t.WallRun.ClearThreshold)
	}
	if t.WallRun.GravityMax < 0 || t.WallRun.GravityRamp < 0 {
		return fmt.Errorf("%w: wall_run gravity must not be negative", ErrInvalidTuning)
	}
	return nil
}
