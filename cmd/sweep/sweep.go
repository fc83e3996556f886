package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/getsentry/sentry-go"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/system"
	"github.com/milk9111/grapplerun/movement"
	"github.com/milk9111/grapplerun/prefabs"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

const (
	dt = float32(1.0 / 60)
	// maxTicks bounds a run whose route never finishes.
	maxTicks = 60 * 60 * 10

	viewWidth  = 1280
	viewHeight = 720
)

var errPanicked = errors.New("run panicked")

// Result summarises one variant's run over the route.
type Result struct {
	Variant  string
	Highest  float32
	Final    float32
	Focus    float32
	Failed   int
	Arrivals int
	Hits     int
	Kills    int
	Err      error
}

// recorder is the UI for headless runs. It only counts.
type recorder struct {
	movement.NopUI
	failed int
}

func (r *recorder) ActionFailed(movement.Action) { r.failed++ }

// Sweep holds everything shared by the variants of one sweep.
type Sweep struct {
	Spec    prefabs.SweepSpec
	Base    movement.Tuning
	Scene   prefabs.SceneSpec
	Route   prefabs.RouteSpec
	Workers int
	Log     logrus.FieldLogger
}

// LoadSweep reads a sweep file and the base tuning, scene and route it names.
func LoadSweep(filename string, log logrus.FieldLogger) (*Sweep, error) {
	spec, err := prefabs.LoadSweepSpec(filename)
	if err != nil {
		return nil, err
	}
	if len(spec.Variants) == 0 {
		return nil, fmt.Errorf("sweep %s: no variants", filename)
	}
	base, err := prefabs.LoadTuning(spec.Base)
	if err != nil {
		return nil, err
	}
	scene, err := prefabs.LoadSceneSpec(spec.Scene)
	if err != nil {
		return nil, err
	}
	route, err := prefabs.LoadRouteSpec(spec.Route)
	if err != nil {
		return nil, err
	}
	return &Sweep{Spec: spec, Base: base, Scene: scene, Route: route, Workers: 4, Log: log}, nil
}

// Run simulates every variant on an ants pool and returns the results sorted
// by highest momentum, failures last.
func (s *Sweep) Run() ([]Result, error) {
	results := make([]Result, len(s.Spec.Variants))
	var wg sync.WaitGroup

	pool, err := ants.NewPool(s.Workers, ants.WithPanicHandler(func(p any) {
		s.Log.WithField("panic", p).Error("sweep run panicked")
		sentry.CurrentHub().Clone().Recover(p)
	}))
	if err != nil {
		return nil, fmt.Errorf("sweep: pool: %w", err)
	}
	defer pool.Release()

	for i, v := range s.Spec.Variants {
		results[i] = Result{Variant: v.Name, Err: errPanicked}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.runVariant(v)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		return a.Highest > b.Highest
	})
	return results, nil
}

func (s *Sweep) runVariant(v prefabs.VariantSpec) Result {
	res := Result{Variant: v.Name}
	log := s.Log.WithField("variant", v.Name)

	tuning, err := prefabs.VariantTuning(s.Base, v)
	if err != nil {
		res.Err = err
		return res
	}
	route, err := system.NewRoutePlayer(s.Route)
	if err != nil {
		res.Err = err
		return res
	}
	rec := &recorder{}
	session := movement.NewSession(s.Log)
	scene, err := system.BuildScene(s.Scene, system.SceneOptions{
		Tuning:  tuning,
		UI:      rec,
		Session: session,
		Driver:  route,
		Width:   viewWidth,
		Height:  viewHeight,
	})
	if err != nil {
		res.Err = err
		return res
	}

	homing := false
	for tick := 0; !route.Done() && tick < maxTicks; tick++ {
		for _, ev := range scene.Step(dt) {
			switch ev.Type {
			case ecs.EventTargetHit:
				res.Hits++
			case ecs.EventTargetKilled:
				res.Kills++
			}
		}
		g := scene.Controller.Grapple()
		// Arrival always starts an attack; a homing time-out does not.
		if homing && !g.Homing && scene.Controller.Motion().InAttack {
			res.Arrivals++
		}
		homing = g.Homing
	}

	m := scene.Controller.Momentum()
	res.Highest = m.Highest
	res.Final = m.Raw
	res.Focus = m.Focus
	res.Failed = rec.failed
	log.WithFields(logrus.Fields{"highest": res.Highest, "final": res.Final}).Debug("variant done")
	return res
}

// WriteTable prints results as an aligned table.
func WriteTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tHIGHEST\tFINAL\tFOCUS\tFAILED\tARRIVALS\tHITS\tKILLS\tERROR")
	for _, r := range results {
		errText := "-"
		if r.Err != nil {
			errText = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%.1f\t%d\t%d\t%d\t%d\t%s\n",
			r.Variant, r.Highest, r.Final, r.Focus, r.Failed, r.Arrivals, r.Hits, r.Kills, errText)
	}
	return tw.Flush()
}

// Failed reports whether any run ended in an error.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
