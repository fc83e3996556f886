package system

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
	"github.com/milk9111/grapplerun/prefabs"
)

type routeEvent struct {
	at     float32
	action movement.Action
	data   movement.ActionData
	input  bool
	yaw    *float32
}

// RoutePlayer replays a timed input script into the player's Input buffer.
// It stands in for the keyboard in headless runs.
type RoutePlayer struct {
	name     string
	duration float32
	events   []routeEvent
	next     int
	elapsed  float32
}

func NewRoutePlayer(spec prefabs.RouteSpec) (*RoutePlayer, error) {
	r := &RoutePlayer{name: spec.Name, duration: spec.Duration}
	for i, ev := range spec.Events {
		re := routeEvent{at: ev.At}
		if ev.Yaw != nil {
			yaw := mgl32.DegToRad(*ev.Yaw)
			re.yaw = &yaw
		}
		if ev.Action != "" {
			a, err := prefabs.ParseAction(ev.Action)
			if err != nil {
				return nil, fmt.Errorf("system: route %s event %d: %w", spec.Name, i, err)
			}
			re.input = true
			re.action = a
			re.data = movement.ActionData{Vector: mgl32.Vec2{ev.Move[0], ev.Move[1]}, Released: ev.Released}
		} else if re.yaw == nil {
			return nil, fmt.Errorf("system: route %s event %d: no action or yaw", spec.Name, i)
		}
		r.events = append(r.events, re)
		if ev.At > r.duration {
			r.duration = ev.At
		}
	}
	sort.SliceStable(r.events, func(i, j int) bool { return r.events[i].at < r.events[j].at })
	return r, nil
}

func (r *RoutePlayer) Name() string { return r.name }

func (r *RoutePlayer) Duration() float32 { return r.duration }

// Done reports whether the route has run its full duration.
func (r *RoutePlayer) Done() bool { return r.elapsed >= r.duration }

func (r *RoutePlayer) Update(w *ecs.World, dt float32) {
	if r == nil || w == nil {
		return
	}
	r.elapsed += dt
	e, _, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	for r.next < len(r.events) && r.events[r.next].at <= r.elapsed {
		ev := r.events[r.next]
		r.next++
		if ev.yaw != nil {
			if c, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
				c.Yaw = wrapAngle(*ev.yaw)
				c.Pitch = 0
			}
		}
		if ev.input {
			if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
				in.Push(ev.action, ev.data)
			}
		}
	}
}
