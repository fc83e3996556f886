package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
)

// TargetHandle exposes a target entity to the movement core. It holds the
// entity handle only, so a destroyed target reads as dead.
type TargetHandle struct {
	w *ecs.World
	e ecs.Entity
}

func NewTargetHandle(w *ecs.World, e ecs.Entity) *TargetHandle {
	return &TargetHandle{w: w, e: e}
}

func (h *TargetHandle) Entity() ecs.Entity { return h.e }

func (h *TargetHandle) IsDead() bool {
	health, ok := ecs.Get(h.w, h.e, component.HealthComponent.Kind())
	return !ok || health.Dead()
}

// ApplyDamage lowers health and reports the hit, and the kill when health
// runs out, on the world event queue.
func (h *TargetHandle) ApplyDamage(amount float32) {
	health, ok := ecs.Get(h.w, h.e, component.HealthComponent.Kind())
	if !ok || health.Dead() || amount <= 0 {
		return
	}
	health.Current -= amount
	if health.Current < 0 {
		health.Current = 0
	}
	_ = ecs.Add(h.w, h.e, component.HitFlashComponent.Kind(), &component.HitFlash{Remaining: hitFlashDuration})
	h.w.Events().Push(ecs.Event{Type: ecs.EventTargetHit, Entity: h.e, Data: amount})
	if health.Dead() {
		h.w.Events().Push(ecs.Event{Type: ecs.EventTargetKilled, Entity: h.e})
	}
}

// Position is the centre of the target's collider.
func (h *TargetHandle) Position() mgl32.Vec3 {
	t, ok := ecs.Get(h.w, h.e, component.TransformComponent.Kind())
	if !ok {
		return mgl32.Vec3{}
	}
	if c, ok := ecs.Get(h.w, h.e, component.ColliderComponent.Kind()); ok {
		return t.Position.Add(c.Min.Add(c.Max).Mul(0.5))
	}
	return t.Position
}

func (h *TargetHandle) AllowClipping(allow bool) {
	if tag, ok := ecs.Get(h.w, h.e, component.TargetTagComponent.Kind()); ok {
		tag.Clipping = allow
	}
}

// BodyHandle adapts the player's Body and Transform to movement.Body.
type BodyHandle struct {
	w *ecs.World
	e ecs.Entity
}

func NewBodyHandle(w *ecs.World, e ecs.Entity) *BodyHandle {
	return &BodyHandle{w: w, e: e}
}

func (b *BodyHandle) Position() mgl32.Vec3 {
	if t, ok := ecs.Get(b.w, b.e, component.TransformComponent.Kind()); ok {
		return t.Position
	}
	return mgl32.Vec3{}
}

func (b *BodyHandle) Velocity() mgl32.Vec3 {
	if body, ok := ecs.Get(b.w, b.e, component.BodyComponent.Kind()); ok {
		return body.Velocity
	}
	return mgl32.Vec3{}
}

func (b *BodyHandle) SetVelocity(v mgl32.Vec3) {
	if body, ok := ecs.Get(b.w, b.e, component.BodyComponent.Kind()); ok {
		body.Velocity = v
	}
}

func (b *BodyHandle) SetGravityEnabled(enabled bool) {
	if body, ok := ecs.Get(b.w, b.e, component.BodyComponent.Kind()); ok {
		body.GravityEnabled = enabled
	}
}

func (b *BodyHandle) SetHeightScale(scale float32) {
	if body, ok := ecs.Get(b.w, b.e, component.BodyComponent.Kind()); ok {
		body.HeightScale = scale
	}
}

// StandCheck reports whether the space between the body's current top and
// its standing height is free of solid geometry.
type StandCheck struct {
	w *ecs.World
	e ecs.Entity
}

func NewStandCheck(w *ecs.World, e ecs.Entity) *StandCheck {
	return &StandCheck{w: w, e: e}
}

// standSkin shrinks the headroom box so walls the body is touching don't count.
const standSkin = 0.05

func (s *StandCheck) CanStand() bool {
	t, ok := ecs.Get(s.w, s.e, component.TransformComponent.Kind())
	if !ok {
		return true
	}
	body, ok := ecs.Get(s.w, s.e, component.BodyComponent.Kind())
	if !ok {
		return true
	}
	top := body.Height()
	if top >= body.StandHeight {
		return true
	}
	r := body.Radius - standSkin
	lo := t.Position.Add(mgl32.Vec3{-r, top, -r})
	hi := t.Position.Add(mgl32.Vec3{r, body.StandHeight, r})

	clear := true
	ecs.ForEach2(s.w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, ct *component.Transform) {
		if !clear || e == s.e || c.Layer&solidLayers == 0 {
			return
		}
		bb := c.Box(ct.Position)
		if lo.X() < bb.Max().X() && hi.X() > bb.Min().X() &&
			lo.Y() < bb.Max().Y() && hi.Y() > bb.Min().Y() &&
			lo.Z() < bb.Max().Z() && hi.Z() > bb.Min().Z() {
			clear = false
		}
	})
	return clear
}

var (
	_ movement.Target     = (*TargetHandle)(nil)
	_ movement.Clippable  = (*TargetHandle)(nil)
	_ movement.Body       = (*BodyHandle)(nil)
	_ movement.StandProbe = (*StandCheck)(nil)
)
