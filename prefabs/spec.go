package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/grapplerun/movement"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadTuning reads a tuning file over the built-in defaults, so a file only
// needs the keys it changes.
func LoadTuning(filename string) (movement.Tuning, error) {
	data, err := Load(filename)
	if err != nil {
		return movement.Tuning{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseTuning(data)
}

func ParseTuning(data []byte) (movement.Tuning, error) {
	t := movement.DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return movement.Tuning{}, fmt.Errorf("prefabs: unmarshal tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return movement.Tuning{}, fmt.Errorf("prefabs: tuning: %w", err)
	}
	return t, nil
}

// MarshalTuning renders t the way tuning.yaml is written.
func MarshalTuning(t movement.Tuning) ([]byte, error) {
	out, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal tuning: %w", err)
	}
	return out, nil
}

type Vec3 = movement.Vec3Spec

type SceneSpec struct {
	Name      string         `yaml:"name"`
	Spawn     SpawnSpec      `yaml:"spawn"`
	Player    PlayerSpec     `yaml:"player"`
	Boxes     []BoxSpec      `yaml:"boxes"`
	Targets   []TargetSpec   `yaml:"targets"`
	Platforms []PlatformSpec `yaml:"platforms"`
	Pickups   []PickupSpec   `yaml:"pickups"`
}

type SpawnSpec struct {
	Position Vec3 `yaml:"position"`
	// Yaw is in degrees, 0 looking down +X.
	Yaw float32 `yaml:"yaw"`
}

type PlayerSpec struct {
	StandHeight float32    `yaml:"stand_height"`
	Radius      float32    `yaml:"radius"`
	Gravity     float32    `yaml:"gravity"`
	EyeHeight   float32    `yaml:"eye_height"`
	FOV         float32    `yaml:"fov"`
	Sensitivity float32    `yaml:"sensitivity"`
	Strike      StrikeSpec `yaml:"strike"`
}

type StrikeSpec struct {
	Radius float32 `yaml:"radius"`
	Reach  float32 `yaml:"reach"`
}

type BoxSpec struct {
	Name  string     `yaml:"name"`
	Min   Vec3       `yaml:"min"`
	Max   Vec3       `yaml:"max"`
	Layer string     `yaml:"layer"`
	Ramp  *Vec3      `yaml:"ramp"`
	Color *YAMLColor `yaml:"color"`
}

type TargetSpec struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Size     float32 `yaml:"size"`
	Health   float32 `yaml:"health"`
	Script   string  `yaml:"script"`
}

type PlatformSpec struct {
	Name      string  `yaml:"name"`
	Start     Vec3    `yaml:"start"`
	End       Vec3    `yaml:"end"`
	Size      Vec3    `yaml:"size"`
	Frequency float32 `yaml:"frequency"`
}

// PickupSpec places a hovering power-up. Effect is speed_buff, max_focus or
// start_focus.
type PickupSpec struct {
	Name       string  `yaml:"name"`
	Position   Vec3    `yaml:"position"`
	Size       float32 `yaml:"size"`
	Effect     string  `yaml:"effect"`
	Amount     float32 `yaml:"amount"`
	Duration   float32 `yaml:"duration"`
	Multiplier float32 `yaml:"multiplier"`
	// Set replaces start focus instead of adding to it.
	Set        bool    `yaml:"set"`
	Persistent bool    `yaml:"persistent"`
	Amplitude  float32 `yaml:"amplitude"`
	Frequency  float32 `yaml:"frequency"`
}

// ParseLayer maps a scene layer name onto a collision layer.
func ParseLayer(name string) (movement.Layer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ground":
		return movement.LayerGround, nil
	case "wall":
		return movement.LayerWall, nil
	case "ceiling":
		return movement.LayerCeiling, nil
	case "wall_ground", "block":
		return movement.LayerGround | movement.LayerWall, nil
	}
	return 0, fmt.Errorf("prefabs: unknown layer %q", name)
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

// RouteSpec is a timed input script for headless runs.
type RouteSpec struct {
	Name     string           `yaml:"name"`
	Duration float32          `yaml:"duration"`
	Events   []RouteEventSpec `yaml:"events"`
}

type RouteEventSpec struct {
	At       float32    `yaml:"at"`
	Action   string     `yaml:"action"`
	Move     [2]float32 `yaml:"move"`
	Released bool       `yaml:"released"`
	// Yaw, when set, turns the camera to this heading in degrees.
	Yaw *float32 `yaml:"yaw"`
}

func LoadRouteSpec(filename string) (RouteSpec, error) {
	spec, err := LoadSpec[RouteSpec](filename)
	if err != nil {
		return RouteSpec{}, err
	}
	for i, ev := range spec.Events {
		if ev.Action == "" && ev.Yaw != nil {
			continue
		}
		if _, err := ParseAction(ev.Action); err != nil {
			return RouteSpec{}, fmt.Errorf("prefabs: %s event %d: %w", filename, i, err)
		}
	}
	return spec, nil
}

func ParseAction(name string) (movement.Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "move":
		return movement.ActionMove, nil
	case "jump":
		return movement.ActionJump, nil
	case "attack":
		return movement.ActionAttack, nil
	case "slide":
		return movement.ActionSlide, nil
	case "grapple":
		return movement.ActionGrapple, nil
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// SweepSpec lists tuning variants to compare on a route. Each variant's
// overrides are applied over the base tuning file.
type SweepSpec struct {
	Base     string        `yaml:"base"`
	Scene    string        `yaml:"scene"`
	Route    string        `yaml:"route"`
	Variants []VariantSpec `yaml:"variants"`
}

type VariantSpec struct {
	Name      string         `yaml:"name"`
	Overrides map[string]any `yaml:"overrides"`
}

func LoadSweepSpec(filename string) (SweepSpec, error) {
	return LoadSpec[SweepSpec](filename)
}

// VariantTuning applies v's overrides on top of base and validates the result.
func VariantTuning(base movement.Tuning, v VariantSpec) (movement.Tuning, error) {
	t, err := Overlay(base, v.Overrides)
	if err != nil {
		return movement.Tuning{}, fmt.Errorf("prefabs: variant %s: %w", v.Name, err)
	}
	if err := t.Validate(); err != nil {
		return movement.Tuning{}, fmt.Errorf("prefabs: variant %s: %w", v.Name, err)
	}
	return t, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
