package system

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
	"github.com/milk9111/grapplerun/prefabs"
	"github.com/sirupsen/logrus"
)

var (
	targetTint   = color.RGBA{R: 0xe0, G: 0x50, B: 0x40, A: 0xff}
	platformTint = color.RGBA{R: 0x60, G: 0xa0, B: 0xe0, A: 0xff}
	groundTint   = color.RGBA{R: 0x70, G: 0x70, B: 0x70, A: 0xff}
	wallTint     = color.RGBA{R: 0xb0, G: 0x90, B: 0x50, A: 0xff}
	playerTint   = color.RGBA{R: 0x40, G: 0xe0, B: 0x80, A: 0xff}
	pickupTint   = color.RGBA{R: 0xf0, G: 0xd0, B: 0x40, A: 0xff}
)

type SceneOptions struct {
	Tuning  movement.Tuning
	UI      movement.UI
	Session *movement.Session
	// Driver pushes player input before anything else runs, for example a
	// RoutePlayer. Optional.
	Driver ecs.System
	Width  int
	Height int
}

// Scene is a built world with its player wired to a movement controller.
type Scene struct {
	Name       string
	World      *ecs.World
	Scheduler  *ecs.Scheduler
	Player     ecs.Entity
	Controller *movement.Controller
	View       *CameraView
	Probe      *Probe
	Scripts    *TargetScriptSystem
	Attack     *AttackSystem
	Platforms  *PlatformSystem

	log logrus.FieldLogger
}

// BuildScene spawns every entity described by spec and wires the player's
// controller to the systems that serve it.
func BuildScene(spec prefabs.SceneSpec, opts SceneOptions) (*Scene, error) {
	session := opts.Session
	if session == nil {
		session = movement.NewSession(nil)
	}
	log := session.Log.WithField("scene", spec.Name)
	w := ecs.NewWorld()

	for i, b := range spec.Boxes {
		if err := spawnBox(w, b); err != nil {
			return nil, fmt.Errorf("system: scene %s box %d: %w", spec.Name, i, err)
		}
	}
	for i, t := range spec.Targets {
		if err := spawnTarget(w, t); err != nil {
			return nil, fmt.Errorf("system: scene %s target %d: %w", spec.Name, i, err)
		}
	}
	for i, p := range spec.Platforms {
		if err := spawnPlatform(w, p); err != nil {
			return nil, fmt.Errorf("system: scene %s platform %d: %w", spec.Name, i, err)
		}
	}

	for i, p := range spec.Pickups {
		if err := spawnPickup(w, p); err != nil {
			return nil, fmt.Errorf("system: scene %s pickup %d: %w", spec.Name, i, err)
		}
	}

	player, err := spawnPlayer(w, spec, opts.Tuning)
	if err != nil {
		return nil, fmt.Errorf("system: scene %s player: %w", spec.Name, err)
	}

	s := &Scene{
		Name:      spec.Name,
		World:     w,
		Player:    player,
		View:      NewCameraView(w, player, opts.Width, opts.Height),
		Probe:     NewProbe(w, player),
		Scripts:   NewTargetScriptSystem(log),
		Platforms: NewPlatformSystem(),
		log:       log,
	}
	s.Attack = NewAttackSystem(w, player, s.View, log)

	controller, err := movement.NewController(movement.Config{
		Tuning:    opts.Tuning,
		Body:      NewBodyHandle(w, player),
		Probe:     s.Probe,
		Targets:   s.Probe,
		View:      s.View,
		Stand:     NewStandCheck(w, player),
		HitWindow: s.Attack,
		UI:        opts.UI,
		Session:   session,
	})
	if err != nil {
		return nil, fmt.Errorf("system: scene %s: %w", spec.Name, err)
	}
	s.Controller = controller
	if err := ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{Controller: controller}); err != nil {
		return nil, err
	}

	s.Attack.OnHit = func(ecs.Entity) { controller.RegisterHit() }
	s.Platforms.OnLeave = func(rider ecs.Entity, v mgl32.Vec3) {
		if rider == player {
			controller.SetConveyorVelocity(v)
		}
	}

	s.Scheduler = ecs.NewScheduler(
		opts.Driver,
		s.Platforms,
		s.Scripts,
		NewRespawnSystem(log),
		NewPlayerControllerSystem(),
		NewKinematicSystem(),
		NewPickupHoverSystem(),
		NewPickupCollectSystem(log),
		s.Attack,
		NewHitFlashSystem(),
	)

	log.WithFields(logrus.Fields{
		"entities": len(ecs.Entities(w)),
		"targets":  len(spec.Targets),
		"pickups":  len(spec.Pickups),
	}).Info("scene built")
	return s, nil
}

// Step runs one fixed tick and returns the events it raised.
func (s *Scene) Step(dt float32) []ecs.Event {
	s.Scheduler.Update(s.World, dt)
	s.Probe.Forget()
	return s.World.Events().Drain()
}

// SetTuning applies new constants to the running controller and strike.
func (s *Scene) SetTuning(t movement.Tuning) error {
	if err := s.Controller.SetTuning(t); err != nil {
		return err
	}
	if strike, ok := ecs.Get(s.World, s.Player, component.StrikeComponent.Kind()); ok {
		strike.Damage = t.Combat.AttackDamage
	}
	return nil
}

// RequestRespawn sends the player back to the spawn point on the next tick.
func (s *Scene) RequestRespawn() {
	_ = ecs.Add(s.World, s.Player, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
}

// Input returns the player's input buffer.
func (s *Scene) Input() *component.Input {
	in, _ := ecs.Get(s.World, s.Player, component.InputComponent.Kind())
	return in
}

// PlayerPosition is the bottom centre of the player's body.
func (s *Scene) PlayerPosition() mgl32.Vec3 {
	if t, ok := ecs.Get(s.World, s.Player, component.TransformComponent.Kind()); ok {
		return t.Position
	}
	return mgl32.Vec3{}
}

// TargetsAlive counts targets that still have health.
func (s *Scene) TargetsAlive() int {
	alive := 0
	ecs.ForEach2(s.World, component.TargetTagComponent.Kind(), component.HealthComponent.Kind(), func(_ ecs.Entity, _ *component.TargetTag, h *component.Health) {
		if !h.Dead() {
			alive++
		}
	})
	return alive
}

func spawnBox(w *ecs.World, b prefabs.BoxSpec) error {
	layer, err := prefabs.ParseLayer(b.Layer)
	if err != nil {
		return err
	}
	lo, hi := b.Min.Vec3(), b.Max.Vec3()
	if lo.X() > hi.X() || lo.Y() > hi.Y() || lo.Z() > hi.Z() {
		return fmt.Errorf("min %v is above max %v", lo, hi)
	}
	collider := &component.Collider{Min: lo, Max: hi, Layer: layer}
	if b.Ramp != nil {
		n := b.Ramp.Vec3()
		if n.Y() <= 0 {
			return fmt.Errorf("ramp normal %v must point up", n)
		}
		collider.Normal = n.Normalize()
	}

	var tint color.Color = groundTint
	if layer&movement.LayerWall != 0 {
		tint = wallTint
	}
	if b.Color != nil && b.Color.Color != nil {
		tint = b.Color.Color
	}

	e := ecs.CreateEntity(w)
	return addAll(
		func() error { return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: b.Name}) },
		func() error { return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}) },
		func() error { return ecs.Add(w, e, component.ColliderComponent.Kind(), collider) },
		func() error { return ecs.Add(w, e, component.TintComponent.Kind(), &component.Tint{Color: tint}) },
	)
}

func spawnTarget(w *ecs.World, t prefabs.TargetSpec) error {
	if t.Size <= 0 {
		return fmt.Errorf("size must be positive, got %v", t.Size)
	}
	if t.Health <= 0 {
		return fmt.Errorf("health must be positive, got %v", t.Health)
	}
	half := t.Size / 2
	pos := t.Position.Vec3()

	e := ecs.CreateEntity(w)
	err := addAll(
		func() error { return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: t.Name}) },
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
		},
		func() error {
			return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
				Min:   mgl32.Vec3{-half, -half, -half},
				Max:   mgl32.Vec3{half, half, half},
				Layer: movement.LayerTarget,
			})
		},
		func() error { return ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{}) },
		func() error {
			return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Current: t.Health, Max: t.Health})
		},
		func() error { return ecs.Add(w, e, component.TintComponent.Kind(), &component.Tint{Color: targetTint}) },
	)
	if err != nil || t.Script == "" {
		return err
	}
	return ecs.Add(w, e, component.MotionScriptComponent.Kind(), &component.MotionScript{Path: t.Script, Origin: pos})
}

func spawnPlatform(w *ecs.World, p prefabs.PlatformSpec) error {
	size := p.Size.Vec3()
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		return fmt.Errorf("size %v must be positive", size)
	}
	platform := &component.Platform{Start: p.Start.Vec3(), End: p.End.Vec3(), Frequency: p.Frequency}

	e := ecs.CreateEntity(w)
	return addAll(
		func() error { return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: p.Name}) },
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: PlatformPosition(platform, 0)})
		},
		// The top face sits at the transform.
		func() error {
			return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
				Min:   mgl32.Vec3{-size.X() / 2, -size.Y(), -size.Z() / 2},
				Max:   mgl32.Vec3{size.X() / 2, 0, size.Z() / 2},
				Layer: movement.LayerGround,
			})
		},
		func() error { return ecs.Add(w, e, component.PlatformComponent.Kind(), platform) },
		func() error {
			return ecs.Add(w, e, component.TintComponent.Kind(), &component.Tint{Color: platformTint})
		},
	)
}

func spawnPickup(w *ecs.World, p prefabs.PickupSpec) error {
	if p.Size <= 0 {
		return fmt.Errorf("size must be positive, got %v", p.Size)
	}
	pickup := &component.Pickup{
		Effect:       component.PickupEffect(strings.ToLower(strings.TrimSpace(p.Effect))),
		Amount:       p.Amount,
		Duration:     p.Duration,
		Multiplier:   p.Multiplier,
		Set:          p.Set,
		Persistent:   p.Persistent,
		HalfSize:     p.Size / 2,
		BobAmplitude: p.Amplitude,
		BobFrequency: p.Frequency,
	}
	switch pickup.Effect {
	case component.PickupSpeedBuff:
		if p.Duration <= 0 {
			return fmt.Errorf("speed_buff duration must be positive, got %v", p.Duration)
		}
	case component.PickupMaxFocus:
		if p.Amount == 0 {
			return fmt.Errorf("max_focus amount must not be zero")
		}
	case component.PickupStartFocus:
	default:
		return fmt.Errorf("unknown pickup effect %q", p.Effect)
	}

	e := ecs.CreateEntity(w)
	return addAll(
		func() error { return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: p.Name}) },
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: p.Position.Vec3()})
		},
		func() error { return ecs.Add(w, e, component.PickupComponent.Kind(), pickup) },
		func() error { return ecs.Add(w, e, component.TintComponent.Kind(), &component.Tint{Color: pickupTint}) },
	)
}

func spawnPlayer(w *ecs.World, spec prefabs.SceneSpec, tuning movement.Tuning) (ecs.Entity, error) {
	ps := spec.Player
	if ps.StandHeight <= 0 || ps.Radius <= 0 {
		return 0, fmt.Errorf("stand height and radius must be positive")
	}
	pos := spec.Spawn.Position.Vec3()
	yaw := mgl32.DegToRad(spec.Spawn.Yaw)
	fov := ps.FOV
	if fov <= 0 {
		fov = 75
	}

	e := ecs.CreateEntity(w)
	err := addAll(
		func() error { return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: "player"}) },
		func() error { return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}) },
		func() error {
			return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
		},
		func() error {
			return ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{
				Gravity:        ps.Gravity,
				GravityEnabled: true,
				HeightScale:    1,
				StandHeight:    ps.StandHeight,
				Radius:         ps.Radius,
			})
		},
		func() error {
			return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
				Min:   mgl32.Vec3{-ps.Radius, 0, -ps.Radius},
				Max:   mgl32.Vec3{ps.Radius, ps.StandHeight, ps.Radius},
				Layer: movement.LayerPlayer,
			})
		},
		func() error {
			return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
				Yaw:         yaw,
				EyeHeight:   ps.EyeHeight,
				FOV:         mgl32.DegToRad(fov),
				Near:        0.05,
				Far:         500,
				Sensitivity: ps.Sensitivity,
			})
		},
		func() error {
			return ecs.Add(w, e, component.StrikeComponent.Kind(), &component.Strike{
				Radius: ps.Strike.Radius,
				Reach:  ps.Strike.Reach,
				Damage: tuning.Combat.AttackDamage,
			})
		},
		func() error { return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}) },
		func() error {
			return ecs.Add(w, e, component.SpawnComponent.Kind(), &component.Spawn{Position: pos, Yaw: yaw})
		},
		func() error { return ecs.Add(w, e, component.TintComponent.Kind(), &component.Tint{Color: playerTint}) },
	)
	return e, err
}

func addAll(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
