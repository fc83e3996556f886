package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/ecs/system"
	"github.com/milk9111/grapplerun/movement"
	"github.com/milk9111/grapplerun/prefabs"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	tps        = 60
	dt         = float32(1.0 / tps)

	// pixelsPerMeter scales the top-down map.
	pixelsPerMeter = 12
)

type GameOptions struct {
	Scene  string
	Tuning string
	Debug  bool
	Watch  bool
	Log    *logrus.Logger
}

type Game struct {
	frames int

	opts    GameOptions
	log     logrus.FieldLogger
	session *movement.Session
	scene   *system.Scene
	spec    prefabs.SceneSpec
	tuning  movement.Tuning
	pending *movement.Tuning

	input   *Input
	hud     *HUD
	pauseUI *ebitenui.UI
	paused  bool
	quit    bool

	watcher   *prefabs.Watcher
	clipboard bool
}

func NewGame(opts GameOptions) (*Game, error) {
	tuning, err := prefabs.LoadTuning(opts.Tuning)
	if err != nil {
		return nil, err
	}
	spec, err := prefabs.LoadSceneSpec(opts.Scene)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:    opts,
		log:     opts.Log.WithField("component", "game"),
		session: movement.NewSession(opts.Log),
		spec:    spec,
		tuning:  tuning,
		input:   NewInput(),
		hud:     NewHUD(),
	}
	if err := g.buildScene(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	if err := clipboard.Init(); err != nil {
		g.log.WithError(err).Warn("clipboard unavailable")
	} else {
		g.clipboard = true
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			g.log.WithError(err).Warn("prefab hot reload disabled")
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) buildScene() error {
	scene, err := system.BuildScene(g.spec, system.SceneOptions{
		Tuning:  g.tuning,
		UI:      g.hud,
		Session: g.session,
		Width:   baseWidth,
		Height:  baseHeight,
	})
	if err != nil {
		return err
	}
	scene.Scheduler.Profile = g.opts.Debug
	g.scene = scene
	g.hud.SetStatus("scene", fmt.Sprintf("scene %s, session %s", scene.Name, g.session.ID.String()[:8]))
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}
	g.pollReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.hotkeys()
	g.input.Update(g.scene)

	// Reloaded tuning lands between ticks only.
	if g.pending != nil {
		if err := g.scene.SetTuning(*g.pending); err != nil {
			g.log.WithError(err).Warn("rejected reloaded tuning")
		} else {
			g.tuning = *g.pending
			g.hud.Notice("tuning reloaded")
		}
		g.pending = nil
	}

	for _, ev := range g.scene.Step(dt) {
		g.hud.Event(ev)
	}
	g.hud.Tick(dt)
	g.hud.SetStatus("multiplier", fmt.Sprintf("speed x%.2f  raw %.3f  basis %.2f",
		g.scene.Controller.Motion().Multiplier, g.scene.Controller.Momentum().Raw, g.scene.Controller.Momentum().Basis))
	g.hud.SetStatus("targets", fmt.Sprintf("targets %d", g.scene.TargetsAlive()))
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		g.input.Recapture()
	}
}

func (g *Game) respawn() {
	g.scene.RequestRespawn()
}

func (g *Game) hotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.respawn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		if g.session.CombatStopped() {
			g.session.ResumeCombat()
			g.hud.Notice("combat resumed")
		} else {
			g.session.StopCombat()
			g.hud.Notice("combat stopped")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.scene.Controller.BuffMomentum(5, 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyTuning()
	}
}

func (g *Game) copyTuning() {
	if !g.clipboard {
		g.hud.Notice("clipboard unavailable")
		return
	}
	data, err := prefabs.MarshalTuning(g.scene.Controller.Tuning())
	if err != nil {
		g.log.WithError(err).Error("marshal tuning")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.hud.Notice("tuning copied to clipboard")
}

// pollReloads drains pending file changes without blocking the tick.
func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err := <-g.watcher.Errors:
			g.log.WithError(err).Warn("prefab watcher")
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	log := g.log.WithField("file", change.Name)
	switch {
	case change.Kind == prefabs.ChangeScript:
		g.scene.Scripts.Reload(g.scene.World, change.Name)
	case change.Name == filepath.Base(g.opts.Tuning):
		t, err := prefabs.LoadTuning(g.opts.Tuning)
		if err != nil {
			log.WithError(err).Warn("tuning reload failed")
			return
		}
		g.pending = &t
	case change.Name == filepath.Base(g.opts.Scene):
		spec, err := prefabs.LoadSceneSpec(g.opts.Scene)
		if err != nil {
			log.WithError(err).Warn("scene reload failed")
			return
		}
		g.spec = spec
		if err := g.buildScene(); err != nil {
			log.WithError(err).Warn("scene rebuild failed")
			return
		}
		log.Info("scene reloaded")
		g.hud.Notice("scene reloaded")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.drawMap(screen)
	g.hud.Draw(screen)
	if g.opts.Debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()), 8, baseHeight-20)
		g.drawTimings(screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

// drawMap renders the world from above, centred on the player with +X to
// the right and +Z down.
func (g *Game) drawMap(screen *ebiten.Image) {
	w := g.scene.World
	centre := g.scene.PlayerPosition()
	toScreen := func(p mgl32.Vec3) (float32, float32) {
		return baseWidth/2 + (p.X()-centre.X())*pixelsPerMeter, baseHeight/2 + (p.Z()-centre.Z())*pixelsPerMeter
	}

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		if e == g.scene.Player {
			return
		}
		bb := c.Box(t.Position)
		x0, y0 := toScreen(bb.Min())
		x1, y1 := toScreen(bb.Max())
		var clr color.Color = colornames.Gray
		if tint, ok := ecs.Get(w, e, component.TintComponent.Kind()); ok && tint.Color != nil {
			clr = tint.Color
		}
		if f, ok := ecs.Get(w, e, component.HitFlashComponent.Kind()); ok && f.Remaining > 0 {
			clr = colornames.White
		}
		if tag, ok := ecs.Get(w, e, component.TargetTagComponent.Kind()); ok && tag.Clipping {
			vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, clr, false)
			return
		}
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, clr, false)
	})

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Pickup, t *component.Transform) {
		if p.Collected {
			return
		}
		x, y := toScreen(t.Position)
		var clr color.Color = colornames.Gold
		if tint, ok := ecs.Get(w, e, component.TintComponent.Kind()); ok && tint.Color != nil {
			clr = tint.Color
		}
		vector.StrokeCircle(screen, x, y, p.HalfSize*pixelsPerMeter, 2, clr, true)
	})

	// Player and view direction.
	px, py := toScreen(centre)
	r := float32(0.4 * pixelsPerMeter)
	vector.FillRect(screen, px-r, py-r, 2*r, 2*r, colornames.Mediumseagreen, false)
	fx, fy := toScreen(centre.Add(g.scene.View.Forward().Mul(2)))
	vector.StrokeLine(screen, px, py, fx, fy, 2, colornames.Lightgrey, true)

	// Grapple line while homing.
	if gs := g.scene.Controller.Grapple(); gs.Homing {
		dx, dy := toScreen(gs.Destination)
		vector.StrokeLine(screen, px, py, dx, dy, 2, colornames.Gold, true)
	}
}

func (g *Game) drawTimings(screen *ebiten.Image) {
	var b strings.Builder
	for _, t := range g.scene.Scheduler.Timings() {
		fmt.Fprintf(&b, "%-32s %v\n", strings.TrimPrefix(t.Name, "*system."), t.Duration)
	}
	ebitenutil.DebugPrintAt(screen, b.String(), baseWidth-300, 8)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
