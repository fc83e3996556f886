package system

import (
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
	"github.com/sirupsen/logrus"
)

const dt = float32(1.0 / 60.0)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func addBox(t *testing.T, w *ecs.World, lo, hi mgl32.Vec3, layer movement.Layer) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.ColliderComponent.Kind(), &component.Collider{Min: lo, Max: hi, Layer: layer})
	return e
}

// addRamp adds a 45 degree ramp over x in [0, 10] whose surface is y = 7 - x.
func addRamp(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.ColliderComponent.Kind(), &component.Collider{
		Min:    mgl32.Vec3{0, 0, -5},
		Max:    mgl32.Vec3{10, 4, 5},
		Layer:  movement.LayerGround,
		Normal: mgl32.Vec3{1, 1, 0}.Normalize(),
	})
	return e
}

func addTarget(t *testing.T, w *ecs.World, pos mgl32.Vec3, size, health float32) ecs.Entity {
	t.Helper()
	half := size / 2
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
	mustAdd(t, w, e, component.ColliderComponent.Kind(), &component.Collider{
		Min:   mgl32.Vec3{-half, -half, -half},
		Max:   mgl32.Vec3{half, half, half},
		Layer: movement.LayerTarget,
	})
	mustAdd(t, w, e, component.TargetTagComponent.Kind(), &component.TargetTag{})
	mustAdd(t, w, e, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health})
	return e
}

func addBody(t *testing.T, w *ecs.World, pos mgl32.Vec3) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
	mustAdd(t, w, e, component.BodyComponent.Kind(), &component.Body{
		Gravity:        15,
		GravityEnabled: true,
		HeightScale:    1,
		StandHeight:    1.8,
		Radius:         0.4,
	})
	return e
}

func approx(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func vecApprox(a, b mgl32.Vec3, eps float32) bool {
	return approx(a.X(), b.X(), eps) && approx(a.Y(), b.Y(), eps) && approx(a.Z(), b.Z(), eps)
}

func position(t *testing.T, w *ecs.World, e ecs.Entity) mgl32.Vec3 {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no transform", e)
	}
	return tr.Position
}
