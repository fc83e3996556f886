package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/grapplerun/ecs"
	"github.com/milk9111/grapplerun/ecs/component"
	"github.com/milk9111/grapplerun/movement"
	"golang.org/x/image/colornames"
)

const (
	noticeDuration = 2
	failureFlash   = 0.4
	focusBarWidth  = 200
)

type notice struct {
	text      string
	remaining float32
}

// HUD shows the movement core's presentation events as debug text plus a
// focus bar and the grapple reticle.
type HUD struct {
	// lines keeps a stable draw order for the status rows.
	lines *orderedmap.OrderedMap[string, string]

	focus, maxFocus float32
	focusGain       float32
	failed          map[movement.Action]float32
	reticle         movement.Reticle
	notices         []notice
}

func NewHUD() *HUD {
	h := &HUD{
		lines:  orderedmap.NewOrderedMap[string, string](),
		failed: make(map[movement.Action]float32),
	}
	for _, k := range []string{"scene", "focus", "momentum", "multiplier", "buff", "targets"} {
		h.lines.Set(k, "")
	}
	return h
}

func (h *HUD) SetStatus(key, line string) {
	h.lines.Set(key, line)
}

func (h *HUD) Notice(text string) {
	h.notices = append(h.notices, notice{text: text, remaining: noticeDuration})
}

func (h *HUD) FocusChanged(focus, max float32) {
	h.focus, h.maxFocus = focus, max
	h.lines.Set("focus", fmt.Sprintf("focus %.1f / %.0f", focus, max))
}

func (h *HUD) FocusIncreased(amount float32) {
	h.focusGain = failureFlash
	h.Notice(fmt.Sprintf("+%.1f focus", amount))
}

func (h *HUD) MomentumChanged(raw float32, trend movement.Trend) {
	h.lines.Set("momentum", fmt.Sprintf("momentum %.3f (%s)", raw, trend))
}

func (h *HUD) BuffChanged(active bool, multiplier float32) {
	if !active {
		h.lines.Set("buff", "")
		return
	}
	h.lines.Set("buff", fmt.Sprintf("buff x%.1f", multiplier))
}

func (h *HUD) ActionFailed(action movement.Action) {
	h.failed[action] = failureFlash
}

func (h *HUD) ReticleChanged(r movement.Reticle) {
	h.reticle = r
}

// Event reacts to world events drained after a tick.
func (h *HUD) Event(ev ecs.Event) {
	switch ev.Type {
	case ecs.EventTargetKilled:
		h.Notice("target down")
	case ecs.EventRespawned:
		h.Notice("respawned")
	case ecs.EventPickupCollected:
		switch ev.Data {
		case component.PickupSpeedBuff:
			h.Notice("speed buff")
		case component.PickupMaxFocus:
			h.Notice("max focus up")
		case component.PickupStartFocus:
			h.Notice("start focus up")
		}
	}
}

func (h *HUD) Tick(dt float32) {
	for a, t := range h.failed {
		if t -= dt; t <= 0 {
			delete(h.failed, a)
		} else {
			h.failed[a] = t
		}
	}
	if h.focusGain > 0 {
		h.focusGain -= dt
	}
	kept := h.notices[:0]
	for _, n := range h.notices {
		n.remaining -= dt
		if n.remaining > 0 {
			kept = append(kept, n)
		}
	}
	h.notices = kept
}

func (h *HUD) Draw(screen *ebiten.Image) {
	var b strings.Builder
	for el := h.lines.Front(); el != nil; el = el.Next() {
		if el.Value != "" {
			b.WriteString(el.Value)
			b.WriteByte('\n')
		}
	}
	for _, a := range []movement.Action{movement.ActionJump, movement.ActionAttack, movement.ActionSlide, movement.ActionGrapple} {
		if _, ok := h.failed[a]; ok {
			fmt.Fprintf(&b, "%s failed\n", a)
		}
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 8, 8)

	for i, n := range h.notices {
		ebitenutil.DebugPrintAt(screen, n.text, baseWidth/2-len(n.text)*3, baseHeight/4+i*16)
	}

	h.drawFocusBar(screen)
	h.drawReticle(screen)
}

func (h *HUD) drawFocusBar(screen *ebiten.Image) {
	if h.maxFocus <= 0 {
		return
	}
	x, y := float32(8), float32(baseHeight-40)
	var fill color.Color = colornames.Skyblue
	if h.focusGain > 0 {
		fill = colornames.White
	}
	vector.FillRect(screen, x, y, focusBarWidth*h.focus/h.maxFocus, 10, fill, false)
	vector.StrokeRect(screen, x, y, focusBarWidth, 10, 1, colornames.Lightgrey, false)
}

func (h *HUD) drawReticle(screen *ebiten.Image) {
	var clr color.Color
	switch h.reticle.State {
	case movement.ReticleIdle:
		clr = colornames.Lightgrey
	case movement.ReticleReady:
		clr = colornames.Gold
	default:
		return
	}
	x, y := h.reticle.Screen.X(), h.reticle.Screen.Y()
	vector.StrokeRect(screen, x-8, y-8, 16, 16, 2, clr, true)
}

var _ movement.UI = (*HUD)(nil)
