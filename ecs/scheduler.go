package ecs

import (
	"fmt"
	"time"
)

// System advances one concern of the world by a fixed tick.
type System interface {
	Update(w *World, dt float32)
}

// Timing is how long a system took on the last tick.
type Timing struct {
	Name     string
	Duration time.Duration
}

// Scheduler runs systems in insertion order. Nil systems are skipped when
// added so optional stages can be passed straight through.
type Scheduler struct {
	systems []System
	timings []Timing
	// Profile records per-system timings on every Update.
	Profile bool
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
	s.timings = append(s.timings, Timing{Name: fmt.Sprintf("%T", system)})
}

func (s *Scheduler) Update(w *World, dt float32) {
	if !s.Profile {
		for _, system := range s.systems {
			system.Update(w, dt)
		}
		return
	}
	for i, system := range s.systems {
		start := time.Now()
		system.Update(w, dt)
		s.timings[i].Duration = time.Since(start)
	}
}

func (s *Scheduler) Systems() []System {
	return append([]System(nil), s.systems...)
}

// Timings returns the last profiled tick, one entry per system.
func (s *Scheduler) Timings() []Timing {
	return append([]Timing(nil), s.timings...)
}
