package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/prefabs"
	"github.com/sirupsen/logrus"
)

// Script globals. A motion script reads elapsed, dt and origin and writes
// position as a three element array.
const (
	scriptElapsed  = "elapsed"
	scriptDT       = "dt"
	scriptOrigin   = "origin"
	scriptPosition = "position"
)

type motionRuntime struct {
	path     string
	compiled *tengo.Compiled
}

// TargetScriptSystem moves entities along paths computed by tengo scripts.
type TargetScriptSystem struct {
	log logrus.FieldLogger
	// Load resolves a script path to source. Defaults to prefabs.LoadScript.
	Load func(path string) ([]byte, error)

	cache  map[ecs.Entity]*motionRuntime
	player mgl32.Vec3
}

func NewTargetScriptSystem(log logrus.FieldLogger) *TargetScriptSystem {
	return &TargetScriptSystem{
		log:   log.WithField("system", "target_script"),
		Load:  prefabs.LoadScript,
		cache: map[ecs.Entity]*motionRuntime{},
	}
}

func (s *TargetScriptSystem) Update(w *ecs.World, dt float32) {
	if s == nil || w == nil {
		return
	}
	if _, t, ok := playerTransform(w); ok {
		s.player = t.Position
	}

	ecs.ForEach2(w, component.MotionScriptComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ms *component.MotionScript, t *component.Transform) {
		if ms.Disabled {
			return
		}
		rt, err := s.runtime(e, ms.Path)
		if err != nil {
			ms.Disabled = true
			s.log.WithError(err).WithFields(logrus.Fields{"entity": e, "script": ms.Path}).Error("compile motion script")
			return
		}

		ms.Time += dt
		pos, err := rt.run(ms, t.Position, dt)
		if err != nil {
			ms.Disabled = true
			s.log.WithError(err).WithFields(logrus.Fields{"entity": e, "script": ms.Path}).Error("run motion script")
			return
		}
		t.Position = pos
	})

	for e := range s.cache {
		if !ecs.IsAlive(w, e) {
			delete(s.cache, e)
		}
	}
}

// Reload drops compiled scripts matching path and re-enables the entities
// using them, so the next tick recompiles from source.
func (s *TargetScriptSystem) Reload(w *ecs.World, path string) int {
	if s == nil {
		return 0
	}
	name := scriptName(path)
	reloaded := 0
	ecs.ForEach(w, component.MotionScriptComponent.Kind(), func(e ecs.Entity, ms *component.MotionScript) {
		if scriptName(ms.Path) != name {
			return
		}
		delete(s.cache, e)
		ms.Disabled = false
		reloaded++
	})
	if reloaded > 0 {
		s.log.WithFields(logrus.Fields{"script": name, "entities": reloaded}).Info("motion script reloaded")
	}
	return reloaded
}

func scriptName(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "prefabs/")
	return strings.TrimPrefix(path, "scripts/")
}

func (s *TargetScriptSystem) runtime(e ecs.Entity, path string) (*motionRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty script path")
	}
	src, err := s.Load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(src)
	globals := []struct {
		name  string
		value any
	}{
		{scriptElapsed, 0.0},
		{scriptDT, 0.0},
		{scriptOrigin, vecArray(mgl32.Vec3{})},
		{scriptPosition, vecArray(mgl32.Vec3{})},
		{"player_position", &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
			return vecArray(s.player), nil
		}}},
	}
	for _, g := range globals {
		if err := script.Add(g.name, g.value); err != nil {
			return nil, fmt.Errorf("add global %s: %w", g.name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	rt := &motionRuntime{path: path, compiled: compiled}
	s.cache[e] = rt
	return rt, nil
}

func (rt *motionRuntime) run(ms *component.MotionScript, current mgl32.Vec3, dt float32) (mgl32.Vec3, error) {
	if err := rt.compiled.Set(scriptElapsed, float64(ms.Time)); err != nil {
		return current, err
	}
	if err := rt.compiled.Set(scriptDT, float64(dt)); err != nil {
		return current, err
	}
	if err := rt.compiled.Set(scriptOrigin, vecArray(ms.Origin)); err != nil {
		return current, err
	}
	if err := rt.compiled.Set(scriptPosition, vecArray(current)); err != nil {
		return current, err
	}
	if err := rt.compiled.Run(); err != nil {
		return current, err
	}
	return arrayToVec(rt.compiled.Get(scriptPosition).Value())
}

func vecArray(v mgl32.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: float64(v.X())},
		&tengo.Float{Value: float64(v.Y())},
		&tengo.Float{Value: float64(v.Z())},
	}}
}

func arrayToVec(v any) (mgl32.Vec3, error) {
	items, ok := v.([]any)
	if !ok || len(items) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("position must be an array of three numbers, got %T", v)
	}
	var out mgl32.Vec3
	for i, item := range items {
		switch n := item.(type) {
		case float64:
			out[i] = float32(n)
		case int64:
			out[i] = float32(n)
		default:
			return mgl32.Vec3{}, fmt.Errorf("position[%d] is %T, want a number", i, item)
		}
	}
	return out, nil
}

func playerTransform(w *ecs.World) (ecs.Entity, *component.Transform, bool) {
	e, _, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	return e, t, ok
}
