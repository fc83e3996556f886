package system

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
	"github.com/milk9111/grapplerun/prefabs"
)

// pickupScene builds the yard with only the given pickups. The player
// spawns standing at the origin.
func pickupScene(t *testing.T, pickups ...prefabs.PickupSpec) *Scene {
	t.Helper()
	spec := loadScene(t)
	spec.Pickups = pickups
	s, err := BuildScene(spec, SceneOptions{Tuning: movement.DefaultTuning(), Width: 320, Height: 180})
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	return s
}

func teleport(s *Scene, pos mgl32.Vec3) {
	if tr, ok := ecs.Get(s.World, s.Player, component.TransformComponent.Kind()); ok {
		tr.Position = pos
	}
	if body, ok := ecs.Get(s.World, s.Player, component.BodyComponent.Kind()); ok {
		body.Velocity = mgl32.Vec3{}
	}
}

func collected(events []ecs.Event) []component.PickupEffect {
	var out []component.PickupEffect
	for _, ev := range events {
		if ev.Type == ecs.EventPickupCollected {
			out = append(out, ev.Data.(component.PickupEffect))
		}
	}
	return out
}

func pickupAt(s *Scene, name string) *component.Pickup {
	var found *component.Pickup
	ecs.ForEach2(s.World, component.NameComponent.Kind(), component.PickupComponent.Kind(), func(_ ecs.Entity, n *component.Name, p *component.Pickup) {
		if n.Value == name {
			found = p
		}
	})
	return found
}

func TestPickupSpeedBuff(t *testing.T) {
	s := pickupScene(t, prefabs.PickupSpec{
		Name:       "rush",
		Position:   prefabs.Vec3{Y: 1},
		Size:       1,
		Effect:     "speed_buff",
		Duration:   5,
		Multiplier: 2,
		Amount:     10,
	})

	got := collected(s.Step(dt))
	if len(got) != 1 || got[0] != component.PickupSpeedBuff {
		t.Fatalf("expected one speed buff collected, got %v", got)
	}
	m := s.Controller.Momentum()
	if m.BuffMultiplier != 2 || m.BuffRemaining <= 0 {
		t.Fatalf("expected an active x2 buff, got %+v", m)
	}
	if m.Focus != 10 {
		t.Fatalf("expected 10 focus from the pickup, got %v", m.Focus)
	}

	if got := collected(s.Step(dt)); len(got) != 0 {
		t.Fatalf("a pickup should apply once, got %v", got)
	}
	if !pickupAt(s, "rush").Collected {
		t.Fatal("pickup should be marked collected")
	}
}

func TestPickupMaxFocus(t *testing.T) {
	s := pickupScene(t, prefabs.PickupSpec{
		Name:     "cap",
		Position: prefabs.Vec3{Y: 1},
		Size:     1,
		Effect:   "max_focus",
		Amount:   20,
	})

	if got := collected(s.Step(dt)); len(got) != 1 || got[0] != component.PickupMaxFocus {
		t.Fatalf("expected the max focus pickup, got %v", got)
	}
	want := movement.DefaultTuning().Focus.Max + 20
	if got := s.Controller.Momentum().MaxFocus; got != want {
		t.Fatalf("expected max focus %v, got %v", want, got)
	}
}

func TestPickupStartFocus(t *testing.T) {
	tests := []struct {
		name string
		set  bool
		want float32
	}{
		{name: "add", want: movement.DefaultTuning().Focus.Start + 10},
		{name: "set", set: true, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := pickupScene(t, prefabs.PickupSpec{
				Name:     "spare",
				Position: prefabs.Vec3{X: 4, Y: 1},
				Size:     1,
				Effect:   "start_focus",
				Amount:   10,
				Set:      tt.set,
			})
			teleport(s, mgl32.Vec3{4, 0, 0})
			if got := collected(s.Step(dt)); len(got) != 1 {
				t.Fatalf("expected the start focus pickup, got %v", got)
			}
			if s.Controller.Tuning().Focus.Start != tt.want {
				t.Fatalf("expected start focus %v, got %v", tt.want, s.Controller.Tuning().Focus.Start)
			}

			s.RequestRespawn()
			s.Step(dt)
			// One tick of drain has already run after the respawn.
			if got := s.Controller.Momentum().Focus; !approx(got, tt.want, 0.1) {
				t.Fatalf("expected about %v focus after respawn, got %v", tt.want, got)
			}
		})
	}
}

func TestPickupsRestoreOnRespawn(t *testing.T) {
	s := pickupScene(t,
		prefabs.PickupSpec{Name: "rush", Position: prefabs.Vec3{X: 4, Y: 1}, Size: 1, Effect: "speed_buff", Duration: 1, Multiplier: 2},
		prefabs.PickupSpec{Name: "cap", Position: prefabs.Vec3{X: 4, Y: 1, Z: 0.5}, Size: 1, Effect: "max_focus", Amount: 5, Persistent: true},
	)
	teleport(s, mgl32.Vec3{4, 0, 0})
	if got := collected(s.Step(dt)); len(got) != 2 {
		t.Fatalf("expected both pickups, got %v", got)
	}

	s.RequestRespawn()
	if got := collected(s.Step(dt)); len(got) != 0 {
		t.Fatalf("nothing overlaps the spawn, got %v", got)
	}
	if pickupAt(s, "rush").Collected {
		t.Fatal("regular pickups should come back after a respawn")
	}
	if !pickupAt(s, "cap").Collected {
		t.Fatal("persistent pickups should stay collected")
	}

	teleport(s, mgl32.Vec3{4, 0, 0})
	if got := collected(s.Step(dt)); len(got) != 1 || got[0] != component.PickupSpeedBuff {
		t.Fatalf("expected only the restored pickup, got %v", got)
	}
	if want := movement.DefaultTuning().Focus.Max + 5; s.Controller.Momentum().MaxFocus != want {
		t.Fatalf("persistent pickup should not apply twice, max focus %v", s.Controller.Momentum().MaxFocus)
	}
}

func TestPickupOutOfReach(t *testing.T) {
	s := pickupScene(t, prefabs.PickupSpec{
		Name:     "high",
		Position: prefabs.Vec3{Y: 3},
		Size:     1,
		Effect:   "max_focus",
		Amount:   5,
	})
	for i := 0; i < 30; i++ {
		if got := collected(s.Step(dt)); len(got) != 0 {
			t.Fatalf("tick %d: pickup above the head was collected", i)
		}
	}
	if s.Controller.Momentum().MaxFocus != movement.DefaultTuning().Focus.Max {
		t.Fatal("max focus should be untouched")
	}
}

func TestPickupHover(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: mgl32.Vec3{2, 1, 3}})
	mustAdd(t, w, e, component.PickupComponent.Kind(), &component.Pickup{BobAmplitude: 0.5, BobFrequency: 1})
	s := NewPickupHoverSystem()

	// A quarter cycle puts the pickup at the top of its bob.
	for i := 0; i < 15; i++ {
		s.Update(w, dt)
	}
	if got := position(t, w, e); !vecApprox(got, mgl32.Vec3{2, 1.5, 3}, 1e-3) {
		t.Fatalf("expected the top of the bob, got %v", got)
	}
	for i := 0; i < 30; i++ {
		s.Update(w, dt)
	}
	if got := position(t, w, e); !approx(got.Y(), 0.5, 1e-3) {
		t.Fatalf("expected the bottom of the bob, got %v", got)
	}

	d := ecs.CreateEntity(w)
	mustAdd(t, w, d, component.TransformComponent.Kind(), &component.Transform{Position: mgl32.Vec3{0, 2, 0}})
	mustAdd(t, w, d, component.PickupComponent.Kind(), &component.Pickup{})
	s.Update(w, dt)
	p, _ := ecs.Get(w, d, component.PickupComponent.Kind())
	want := 2 + math32.Sin(dt*defaultBobFrequency*2*math32.Pi)*defaultBobAmplitude
	if p.BobAmplitude != defaultBobAmplitude || !approx(position(t, w, d).Y(), want, 1e-5) {
		t.Fatalf("expected default bob, got %+v at %v", p, position(t, w, d))
	}
}
