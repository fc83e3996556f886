package system

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
)

// PlatformSystem moves oscillating platforms, carries the bodies resting on
// them, and reports when a body steps off a moving platform.
type PlatformSystem struct {
	// OnLeave receives the platform velocity at the moment a rider leaves it.
	OnLeave func(rider ecs.Entity, velocity mgl32.Vec3)

	riding map[ecs.Entity]ecs.Entity
}

func NewPlatformSystem() *PlatformSystem {
	return &PlatformSystem{riding: map[ecs.Entity]ecs.Entity{}}
}

// PlatformPosition is where a platform sits after elapsed seconds.
func PlatformPosition(p *component.Platform, elapsed float32) mgl32.Vec3 {
	t := (math32.Sin(elapsed*p.Frequency*2*math32.Pi) + 1) / 2
	return p.Start.Add(p.End.Sub(p.Start).Mul(t))
}

func (s *PlatformSystem) Update(w *ecs.World, dt float32) {
	if s == nil || w == nil || dt <= 0 {
		return
	}

	s.detectLeaves(w)

	ecs.ForEach2(w, component.PlatformComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Platform, t *component.Transform) {
		p.Time += dt
		next := PlatformPosition(p, p.Time)
		delta := next.Sub(t.Position)
		p.Velocity = delta.Mul(1 / dt)
		t.Position = next

		ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(rider ecs.Entity, body *component.Body, rt *component.Transform) {
			if body.Ground != uint64(e) {
				return
			}
			rt.Position = rt.Position.Add(delta)
		})
	})
}

// detectLeaves compares each body's ground with the platform it was on last
// tick.
func (s *PlatformSystem) detectLeaves(w *ecs.World) {
	ecs.ForEach(w, component.BodyComponent.Kind(), func(e ecs.Entity, body *component.Body) {
		prev, was := s.riding[e]
		ground := ecs.Entity(body.Ground)
		on := body.Grounded && ecs.Has(w, ground, component.PlatformComponent.Kind())

		if was && (!on || ground != prev) {
			delete(s.riding, e)
			if p, ok := ecs.Get(w, prev, component.PlatformComponent.Kind()); ok {
				w.Events().Push(ecs.Event{Type: ecs.EventPlatformLeft, Entity: e, Data: p.Velocity})
				if s.OnLeave != nil {
					s.OnLeave(e, p.Velocity)
				}
			}
		}
		if on {
			s.riding[e] = ground
		}
	})
	for e := range s.riding {
		if !ecs.IsAlive(w, e) {
			delete(s.riding, e)
		}
	}
}
