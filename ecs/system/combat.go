package system

import (
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
	"github.com/sirupsen/logrus"
)

const hitFlashDuration = 0.15

// AttackSystem owns the player's melee volume. The controller opens and
// closes it through SetHitWindow; while open every target inside is struck
// once.
type AttackSystem struct {
	w      *ecs.World
	player ecs.Entity
	view   movement.View
	log    logrus.FieldLogger

	// OnHit runs for each target struck, after damage is applied.
	OnHit func(target ecs.Entity)
}

func NewAttackSystem(w *ecs.World, player ecs.Entity, view movement.View, log logrus.FieldLogger) *AttackSystem {
	return &AttackSystem{w: w, player: player, view: view, log: log.WithField("system", "attack")}
}

func (s *AttackSystem) SetHitWindow(enabled bool) {
	strike, ok := ecs.Get(s.w, s.player, component.StrikeComponent.Kind())
	if !ok {
		return
	}
	if enabled && !strike.Open {
		strike.HitTargets = map[uint64]bool{}
	}
	strike.Open = enabled
}

func (s *AttackSystem) Update(w *ecs.World, _ float32) {
	if s == nil || w == nil {
		return
	}
	strike, ok := ecs.Get(w, s.player, component.StrikeComponent.Kind())
	if !ok || !strike.Open {
		return
	}
	if strike.HitTargets == nil {
		strike.HitTargets = map[uint64]bool{}
	}
	center := s.view.Origin().Add(s.view.Forward().Mul(strike.Reach))

	ecs.ForEach3(w, component.TargetTagComponent.Kind(), component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.TargetTag, c *component.Collider, t *component.Transform) {
		if strike.HitTargets[uint64(e)] {
			return
		}
		if boxDistance(c.Box(t.Position), center) > strike.Radius {
			return
		}
		h := NewTargetHandle(w, e)
		if h.IsDead() {
			return
		}
		strike.HitTargets[uint64(e)] = true
		h.ApplyDamage(strike.Damage)
		s.log.WithFields(logrus.Fields{"target": e, "damage": strike.Damage}).Debug("strike landed")
		if s.OnHit != nil {
			s.OnHit(e)
		}
	})
}

// HitFlashSystem counts down hit flashes and removes targets that died once
// their flash has played out.
type HitFlashSystem struct{}

func NewHitFlashSystem() *HitFlashSystem { return &HitFlashSystem{} }

func (s *HitFlashSystem) Update(w *ecs.World, dt float32) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.HitFlashComponent.Kind(), func(e ecs.Entity, f *component.HitFlash) {
		f.Remaining -= dt
		if f.Remaining > 0 {
			return
		}
		_ = ecs.Remove(w, e, component.HitFlashComponent.Kind())
		if health, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && health.Dead() {
			ecs.DestroyEntity(w, e)
		}
	})
}

var _ movement.HitWindow = (*AttackSystem)(nil)
