package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
)

// strikePlayer adds a player at the origin looking down +X with its strike
// sphere centred at (1.5, 1.6, 0).
func strikePlayer(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.CameraComponent.Kind(), &component.Camera{EyeHeight: 1.6, FOV: mgl32.DegToRad(90)})
	mustAdd(t, w, e, component.StrikeComponent.Kind(), &component.Strike{Radius: 1, Reach: 1.5, Damage: 10})
	return e
}

func TestAttackStrikesOncePerWindow(t *testing.T) {
	w := ecs.NewWorld()
	player := strikePlayer(t, w)
	target := addTarget(t, w, mgl32.Vec3{1.5, 1.6, 0}, 0.8, 30)
	addTarget(t, w, mgl32.Vec3{10, 1.6, 0}, 0.8, 30)

	s := NewAttackSystem(w, player, NewCameraView(w, player, 320, 180), testLogger())
	var struck []ecs.Entity
	s.OnHit = func(e ecs.Entity) { struck = append(struck, e) }
	health, _ := ecs.Get(w, target, component.HealthComponent.Kind())

	s.Update(w, dt)
	if health.Current != 30 {
		t.Fatal("closed window should not strike")
	}

	s.SetHitWindow(true)
	s.Update(w, dt)
	s.Update(w, dt)
	if health.Current != 20 || len(struck) != 1 || struck[0] != target {
		t.Fatalf("expected one strike, got health=%v struck=%v", health.Current, struck)
	}

	s.SetHitWindow(false)
	s.SetHitWindow(true)
	s.Update(w, dt)
	if health.Current != 10 || len(struck) != 2 {
		t.Fatalf("a new window should strike again, got health=%v", health.Current)
	}

	events := w.Events().Drain()
	if len(events) != 2 || events[0].Type != ecs.EventTargetHit {
		t.Fatalf("expected two hit events, got %+v", events)
	}
}

func TestAttackSkipsDeadTargets(t *testing.T) {
	w := ecs.NewWorld()
	player := strikePlayer(t, w)
	target := addTarget(t, w, mgl32.Vec3{1.5, 1.6, 0}, 0.8, 30)
	health, _ := ecs.Get(w, target, component.HealthComponent.Kind())
	health.Current = 0

	s := NewAttackSystem(w, player, NewCameraView(w, player, 320, 180), testLogger())
	hits := 0
	s.OnHit = func(ecs.Entity) { hits++ }
	s.SetHitWindow(true)
	s.Update(w, dt)
	if hits != 0 {
		t.Fatal("dead targets should not count as hits")
	}
}

func TestHitFlashRemovesDeadTargets(t *testing.T) {
	w := ecs.NewWorld()
	alive := addTarget(t, w, mgl32.Vec3{0, 1, 0}, 1, 30)
	dead := addTarget(t, w, mgl32.Vec3{5, 1, 0}, 1, 30)
	NewTargetHandle(w, alive).ApplyDamage(10)
	NewTargetHandle(w, dead).ApplyDamage(30)

	s := NewHitFlashSystem()
	s.Update(w, dt)
	if !ecs.IsAlive(w, dead) {
		t.Fatal("dead target should linger while flashing")
	}
	for i := 0; i < 10; i++ {
		s.Update(w, dt)
	}
	if ecs.IsAlive(w, dead) {
		t.Fatal("dead target should be removed after its flash")
	}
	if !ecs.IsAlive(w, alive) || ecs.Has(w, alive, component.HitFlashComponent.Kind()) {
		t.Fatal("live target should keep existing without its flash")
	}
}

func TestRespawnSystem(t *testing.T) {
	w := ecs.NewWorld()
	e := addBody(t, w, mgl32.Vec3{9, 9, 9})
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.CameraComponent.Kind(), &component.Camera{Pitch: 0.3})
	mustAdd(t, w, e, component.SpawnComponent.Kind(), &component.Spawn{Position: mgl32.Vec3{1, 2, 3}, Yaw: 0.5})
	body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
	body.Velocity = mgl32.Vec3{4, 5, 6}
	s := NewRespawnSystem(testLogger())

	s.Update(w, dt)
	if position(t, w, e) != (mgl32.Vec3{9, 9, 9}) {
		t.Fatal("no request, no respawn")
	}

	mustAdd(t, w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
	s.Update(w, dt)
	if position(t, w, e) != (mgl32.Vec3{1, 2, 3}) || body.Velocity != (mgl32.Vec3{}) {
		t.Fatalf("expected reset at spawn, got %v %v", position(t, w, e), body.Velocity)
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent.Kind())
	if cam.Yaw != 0.5 || cam.Pitch != 0 {
		t.Fatalf("expected camera reset, got %+v", cam)
	}
	if ecs.Has(w, e, component.RespawnRequestComponent.Kind()) {
		t.Fatal("request should be consumed")
	}
	events := w.Events().Drain()
	if len(events) != 1 || events[0].Type != ecs.EventRespawned {
		t.Fatalf("unexpected events %+v", events)
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.Position = mgl32.Vec3{0, -40, 0}
	s.Update(w, dt)
	if position(t, w, e) != (mgl32.Vec3{1, 2, 3}) {
		t.Fatal("falling below the kill plane should respawn")
	}
}
