package movement

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/common"
	"github.com/sirupsen/logrus"
)

// Config wires a Controller to its collaborators. Body, Probe and View are
// required; everything else has a no-op default.
type Config struct {
	Tuning    Tuning
	Body      Body
	Probe     Probe
	Targets   TargetSource
	View      View
	Stand     StandProbe
	HitWindow HitWindow
	UI        UI
	Session   *Session
}

// Controller runs the per-tick movement pipeline for one player.
type Controller struct {
	tuning  Tuning
	body    Body
	probe   Probe
	view    View
	stand   StandProbe
	hits    HitWindow
	ui      UI
	session *Session
	log     logrus.FieldLogger

	momentum *MomentumEngine
	wall     *WallTraversal
	grapple  *GrappleTargeting

	move      mgl32.Vec2
	lastMove  mgl32.Vec2
	direction Direction

	grounded     bool
	groundNormal mgl32.Vec3
	onSlope      bool
	slopeAngle   float32
	prevGroundY  float32
	hadGroundY   bool

	sliding     bool
	standQueued bool
	jumpHeld    bool

	inAttack bool
	attack   Continuation

	conveyor   mgl32.Vec3
	multiplier float32
}

func NewController(cfg Config) (*Controller, error) {
	if cfg.Body == nil {
		return nil, ErrMissingBody
	}
	if cfg.Probe == nil {
		return nil, ErrMissingProbe
	}
	if cfg.View == nil {
		return nil, ErrMissingView
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("movement: new controller: %w", err)
	}
	if cfg.Stand == nil {
		cfg.Stand = alwaysStand{}
	}
	if cfg.HitWindow == nil {
		cfg.HitWindow = nopHitWindow{}
	}
	if cfg.UI == nil {
		cfg.UI = NopUI{}
	}
	if cfg.Session == nil {
		cfg.Session = NewSession(nil)
	}

	log := cfg.Session.Log.WithField("component", "movement")
	c := &Controller{
		tuning:  cfg.Tuning,
		body:    cfg.Body,
		probe:   cfg.Probe,
		view:    cfg.View,
		stand:   cfg.Stand,
		hits:    cfg.HitWindow,
		ui:      cfg.UI,
		session: cfg.Session,
		log:     log,
	}
	c.momentum = NewMomentumEngine(cfg.Tuning, cfg.UI, log)
	c.wall = NewWallTraversal(cfg.Tuning, cfg.Probe)
	c.grapple = NewGrappleTargeting(cfg.Tuning, cfg.View, cfg.Probe, cfg.Targets, cfg.UI, log)
	c.Initialize()
	return c, nil
}

// Initialize resets every piece of per-level state.
func (c *Controller) Initialize() {
	if c == nil {
		return
	}
	if c.inAttack {
		c.hits.SetHitWindow(false)
	}
	c.momentum.Reset()
	c.wall.Reset()
	c.grapple.Reset()

	c.move = mgl32.Vec2{}
	c.lastMove = mgl32.Vec2{}
	c.direction = DirectionNone
	c.grounded = false
	c.groundNormal = common.Up
	c.onSlope = false
	c.slopeAngle = 0
	c.hadGroundY = false
	c.sliding = false
	c.standQueued = false
	c.jumpHeld = false
	c.inAttack = false
	c.attack.Cancel()
	c.conveyor = mgl32.Vec3{}
	c.multiplier = 1

	c.body.SetHeightScale(1)
	c.body.SetGravityEnabled(true)
}

// Respawn puts the player back to per-level defaults and stops it.
func (c *Controller) Respawn() {
	if c == nil {
		return
	}
	c.Initialize()
	c.body.SetVelocity(mgl32.Vec3{})
	c.log.Info("player respawned")
}

// Step advances the controller by one fixed tick.
func (c *Controller) Step(dt float32) {
	if c == nil || dt <= 0 {
		return
	}

	if c.attack.Tick(dt) {
		c.endAttack()
	}
	if c.standQueued && c.stand.CanStand() {
		c.standUp()
	}

	c.multiplier = c.momentum.Update(MomentumInput{
		Direction:   c.direction,
		Sliding:     c.sliding,
		Grounded:    c.grounded,
		Grappling:   c.grapple.Homing(),
		WallRunning: c.wall.Running(),
		WallJumping: c.wall.Jumping(),
		SlopeAngle:  c.slopeAngle,
	}, dt)

	if c.grapple.Homing() {
		c.stepHoming(dt)
		c.late()
		return
	}

	c.updateGround()
	c.wall.Update(WallInput{
		Position:         c.body.Position(),
		Right:            c.view.Right(),
		VerticalVelocity: c.body.Velocity().Y(),
		Grounded:         c.grounded,
		HasMoveInput:     c.move.Len() > common.Epsilon,
		JumpHeld:         c.jumpHeld,
	}, dt)

	if !common.Vec2Equal(c.move, c.lastMove) {
		c.lastMove = c.move
		c.direction = ClassifyDirection(c.move)
	}

	c.body.SetVelocity(c.compose(dt))
	c.late()
}

func (c *Controller) stepHoming(dt float32) {
	if c.grapple.Expired(dt) {
		c.grapple.Abort()
		c.body.SetGravityEnabled(true)
		return
	}
	vel, arrived := c.grapple.Home(c.body.Position(), dt)
	c.body.SetGravityEnabled(false)
	c.body.SetVelocity(vel)
	if !arrived {
		return
	}

	target := c.grapple.Finish()
	c.body.SetGravityEnabled(true)
	if target != nil && !target.IsDead() {
		target.ApplyDamage(c.tuning.Combat.AttackDamage)
	}
	c.startAttack()
}

func (c *Controller) late() {
	c.grapple.Acquire(c.grounded, c.session.CombatStopped())
	c.grapple.UpdateReticle(c.body.Position(), c.grounded, c.momentum.Focus() > 0)
}

func (c *Controller) updateGround() {
	pt := c.tuning.Probes
	pos := c.body.Position()
	center := pos.Add(common.Up.Mul(pt.GroundRadius - pt.GroundSkin))
	c.grounded = c.probe.CheckSphere(center, pt.GroundRadius, LayerGround)
	if !c.grounded {
		c.groundNormal = common.Up
		c.onSlope = false
		c.slopeAngle = 0
		c.hadGroundY = false
		return
	}

	normal := common.Up
	origin := pos.Add(common.Up.Mul(pt.GroundRadius))
	if hit, ok := c.probe.Raycast(origin, common.Up.Mul(-1), pt.GroundRayLength, LayerGround); ok && hit.Normal.Len() > common.Epsilon {
		normal = common.SafeNormalize(hit.Normal)
	}
	c.groundNormal = normal

	angle := common.AngleBetween(normal, common.Up)
	if angle < c.tuning.Movement.FlatSlopeAngle {
		c.onSlope = false
		c.slopeAngle = 0
	} else {
		c.onSlope = true
		if c.hadGroundY && pos.Y() < c.prevGroundY {
			c.slopeAngle = angle
		} else {
			c.slopeAngle = -angle
		}
	}
	c.prevGroundY = pos.Y()
	c.hadGroundY = true
}

// compose builds this tick's velocity from input, momentum, wall state and
// conveyor carry-over.
func (c *Controller) compose(dt float32) mgl32.Vec3 {
	mt := c.tuning.Movement

	fwd := common.Flatten(c.view.Forward())
	right := common.Flatten(c.view.Right())
	dir := common.SafeNormalize(fwd.Mul(c.move.Y()).Add(right.Mul(c.move.X())))
	horizontal := dir.Mul(mt.BaseSpeed * c.multiplier)
	if c.wall.Jumping() {
		horizontal = horizontal.Mul(mt.InAirMultiplier)
	}

	impulse := c.wall.Impulse()
	horizontal = horizontal.Add(mgl32.Vec3{impulse.X(), 0, impulse.Z()})

	c.conveyor = mgl32.Vec3{
		common.ExpDecay(c.conveyor.X(), 0, mt.ConveyorDecay, dt),
		0,
		common.ExpDecay(c.conveyor.Z(), 0, mt.ConveyorDecay, dt),
	}
	horizontal = horizontal.Add(c.conveyor)

	var vy float32
	switch {
	case c.wall.Jumping():
		vy = impulse.Y()
		c.body.SetGravityEnabled(false)
	case c.wall.Running():
		vy = -c.wall.Gravity()
		c.body.SetGravityEnabled(false)
	default:
		vy = c.body.Velocity().Y()
		c.body.SetGravityEnabled(true)
	}

	v := mgl32.Vec3{horizontal.X(), vy, horizontal.Z()}
	if c.grounded && !c.wall.Running() && vy <= 0 {
		v = common.ProjectOnPlane(v, c.groundNormal)
	}
	return v
}

// Perform applies one input action.
func (c *Controller) Perform(action Action, data ActionData) {
	if c == nil {
		return
	}
	switch action {
	case ActionMove:
		c.move = data.Vector
	case ActionJump:
		c.jump(data.Released)
	case ActionAttack:
		if !data.Released {
			c.startAttack()
		}
	case ActionSlide:
		c.setSliding(!data.Released)
	case ActionGrapple:
		if !data.Released {
			c.tryGrapple()
		}
	}
}

func (c *Controller) jump(released bool) {
	if released {
		c.jumpHeld = false
		v := c.body.Velocity()
		if v.Y() > 0 && !c.wall.Jumping() && !c.grapple.Homing() {
			c.body.SetVelocity(mgl32.Vec3{v.X(), 0, v.Z()})
		}
		return
	}
	c.jumpHeld = true

	if c.wall.Contact() && !c.grounded {
		c.gate(gatedAction{
			action:  ActionJump,
			cost:    c.tuning.Focus.WallJumpCost,
			ready:   c.wall.CanJump,
			perform: func() { c.wall.Jump(c.view.Forward(), c.view.Right()) },
		})
		return
	}

	if c.grounded {
		v := c.body.Velocity()
		vy := c.tuning.Movement.JumpForce * math32.Sqrt(math32.Max(c.multiplier, 0))
		c.body.SetVelocity(mgl32.Vec3{v.X(), vy, v.Z()})
	}
}

func (c *Controller) tryGrapple() {
	if c.session.CombatStopped() {
		return
	}
	c.gate(gatedAction{
		action: ActionGrapple,
		cost:   c.tuning.Focus.GrappleCost,
		ready: func() bool {
			return c.grapple.CanLaunch(c.body.Position(), c.grounded)
		},
		perform: func() {
			c.grapple.Launch()
			c.body.SetGravityEnabled(false)
			c.body.SetVelocity(mgl32.Vec3{})
		},
		failWhen: func() bool { return !c.grounded },
	})
}

func (c *Controller) startAttack() {
	if c.inAttack || c.session.CombatStopped() {
		return
	}
	c.inAttack = true
	c.hits.SetHitWindow(true)
	c.attack.Start(c.tuning.Combat.AttackDuration)
}

func (c *Controller) endAttack() {
	c.inAttack = false
	c.hits.SetHitWindow(false)
}

func (c *Controller) setSliding(on bool) {
	if on {
		c.standQueued = false
		if c.sliding {
			return
		}
		c.sliding = true
		c.body.SetHeightScale(c.tuning.Movement.SlideHeightScale)
		return
	}
	if !c.sliding {
		return
	}
	if c.stand.CanStand() {
		c.standUp()
		return
	}
	c.standQueued = true
}

func (c *Controller) standUp() {
	c.sliding = false
	c.standQueued = false
	c.body.SetHeightScale(1)
}

// RegisterHit is called by the hit window owner for every target struck.
func (c *Controller) RegisterHit() {
	if c == nil {
		return
	}
	c.momentum.AddFocus(c.tuning.Focus.HitReward)
}

func (c *Controller) AddFocus(amount float32) {
	if c == nil || amount <= 0 {
		return
	}
	c.momentum.AddFocus(amount)
}

// ChangeMaxFocus raises (or lowers) the focus cap by delta for the rest of
// the run. Start focus and current focus are clamped to the new cap. A cap
// that would not stay positive is refused.
func (c *Controller) ChangeMaxFocus(delta float32) bool {
	if c == nil {
		return false
	}
	limit := c.tuning.Focus.Max + delta
	if !c.momentum.SetMaxFocus(limit) {
		return false
	}
	c.tuning.Focus = c.momentum.FocusTuning()
	c.log.WithField("max", limit).Info("max focus changed")
	return true
}

// ChangeStartFocus sets the focus granted on respawn, or adds to it when add
// is true. The result is clamped to [0, max].
func (c *Controller) ChangeStartFocus(value float32, add bool) {
	if c == nil {
		return
	}
	start := value
	if add {
		start += c.tuning.Focus.Start
	}
	c.momentum.SetStartFocus(start)
	c.tuning.Focus = c.momentum.FocusTuning()
}

// SetConveyorVelocity hands over the velocity of a moving platform the
// player just left. Only the horizontal part is kept and it decays away.
func (c *Controller) SetConveyorVelocity(v mgl32.Vec3) {
	if c == nil {
		return
	}
	c.conveyor = mgl32.Vec3{v.X(), 0, v.Z()}
}

func (c *Controller) BuffMomentum(duration, multiplier float32) {
	if c == nil {
		return
	}
	c.momentum.Buff(duration, multiplier)
}

// SetTuning swaps constants between ticks, keeping accrued state.
func (c *Controller) SetTuning(t Tuning) error {
	if c == nil {
		return nil
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("movement: set tuning: %w", err)
	}
	c.tuning = t
	c.momentum.SetTuning(t)
	c.wall.SetTuning(t)
	c.grapple.SetTuning(t)
	if c.sliding {
		c.body.SetHeightScale(t.Movement.SlideHeightScale)
	}
	c.log.Info("tuning applied")
	return nil
}

func (c *Controller) Tuning() Tuning { return c.tuning }

func (c *Controller) Session() *Session { return c.session }

func (c *Controller) Motion() MotionState {
	if c == nil {
		return MotionState{}
	}
	ws := c.wall.State()
	return MotionState{
		Position:         c.body.Position(),
		Velocity:         c.body.Velocity(),
		Grounded:         c.grounded,
		OnSlope:          c.onSlope,
		SlopeAngle:       c.slopeAngle,
		GroundNormal:     c.groundNormal,
		Sliding:          c.sliding,
		StandQueued:      c.standQueued,
		JumpHeld:         c.jumpHeld,
		InAttack:         c.inAttack,
		WallLeft:         ws.Left,
		WallRight:        ws.Right,
		WallRunning:      ws.Running,
		WallJumping:      ws.Jumping,
		JumpImpulse:      ws.Impulse,
		Direction:        c.direction,
		ConveyorVelocity: c.conveyor,
		Multiplier:       c.multiplier,
	}
}

func (c *Controller) Momentum() MomentumState { return c.momentum.State() }
func (c *Controller) Grapple() GrappleState   { return c.grapple.State() }
func (c *Controller) WallRun() WallRunState   { return c.wall.State() }
