package prefabs

import (
	"errors"
	"testing"

	"github.com/milk9111/grapplerun/movement"
)

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	got, err := LoadTuning("tuning.yaml")
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if got != movement.DefaultTuning() {
		t.Fatalf("tuning.yaml drifted from DefaultTuning:\n got %+v\nwant %+v", got, movement.DefaultTuning())
	}
}

func TestParseTuningOverlaysDefaults(t *testing.T) {
	cases := []struct {
		name  string
		yaml  string
		check func(t *testing.T, tu movement.Tuning)
	}{
		{
			name: "partial",
			yaml: "focus:\n  start: 12\n",
			check: func(t *testing.T, tu movement.Tuning) {
				if tu.Focus.Start != 12 {
					t.Fatalf("expected start 12, got %v", tu.Focus.Start)
				}
				if tu.Focus.Max != movement.DefaultTuning().Focus.Max {
					t.Fatalf("expected default max kept, got %v", tu.Focus.Max)
				}
			},
		},
		{
			name: "nested_pair",
			yaml: "momentum:\n  traits:\n    grapple: {focused: 3}\n",
			check: func(t *testing.T, tu movement.Tuning) {
				g := tu.Momentum.Traits.Grapple
				if g.Focused != 3 || g.Unfocused != movement.DefaultTuning().Momentum.Traits.Grapple.Unfocused {
					t.Fatalf("unexpected grapple trait %+v", g)
				}
			},
		},
		{
			name: "empty",
			yaml: "",
			check: func(t *testing.T, tu movement.Tuning) {
				if tu != movement.DefaultTuning() {
					t.Fatalf("expected defaults")
				}
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tu, err := ParseTuning([]byte(c.yaml))
			if err != nil {
				t.Fatalf("ParseTuning: %v", err)
			}
			c.check(t, tu)
		})
	}
}

func TestParseTuningRejectsInvalid(t *testing.T) {
	_, err := ParseTuning([]byte("grapple:\n  speed: 0\n"))
	if !errors.Is(err, movement.ErrInvalidTuning) {
		t.Fatalf("expected ErrInvalidTuning, got %v", err)
	}
	if _, err := ParseTuning([]byte("focus: [1, 2")); err == nil {
		t.Fatal("expected a YAML error")
	}
}

func TestMarshalTuningRoundTrips(t *testing.T) {
	want := movement.DefaultTuning()
	want.Focus.Start = 7
	data, err := MarshalTuning(want)
	if err != nil {
		t.Fatalf("MarshalTuning: %v", err)
	}
	got, err := ParseTuning(data)
	if err != nil {
		t.Fatalf("ParseTuning: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch")
	}
}

func TestEmbeddedScene(t *testing.T) {
	scene, err := LoadSceneSpec("scene.yaml")
	if err != nil {
		t.Fatalf("LoadSceneSpec: %v", err)
	}
	if len(scene.Boxes) == 0 || len(scene.Targets) == 0 || len(scene.Platforms) == 0 {
		t.Fatalf("expected boxes, targets and platforms, got %+v", scene)
	}
	ramps := 0
	for _, b := range scene.Boxes {
		if _, err := ParseLayer(b.Layer); err != nil {
			t.Fatalf("box %s: %v", b.Name, err)
		}
		if b.Ramp != nil {
			ramps++
		}
		if b.Color == nil || b.Color.Color == nil {
			t.Fatalf("box %s has no colour", b.Name)
		}
	}
	if ramps == 0 {
		t.Fatal("expected at least one ramp")
	}
	for _, tg := range scene.Targets {
		if tg.Script == "" {
			continue
		}
		if _, err := LoadScript(tg.Script); err != nil {
			t.Fatalf("target %s script: %v", tg.Name, err)
		}
	}
}

func TestEmbeddedRouteAndSweep(t *testing.T) {
	route, err := LoadRouteSpec("route.yaml")
	if err != nil {
		t.Fatalf("LoadRouteSpec: %v", err)
	}
	if route.Duration <= 0 || len(route.Events) == 0 {
		t.Fatalf("unexpected route %+v", route)
	}

	sweep, err := LoadSweepSpec("sweep.yaml")
	if err != nil {
		t.Fatalf("LoadSweepSpec: %v", err)
	}
	base, err := LoadTuning(sweep.Base)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	for _, v := range sweep.Variants {
		if _, err := VariantTuning(base, v); err != nil {
			t.Fatalf("variant %s: %v", v.Name, err)
		}
	}
}

func TestVariantTuning(t *testing.T) {
	base := movement.DefaultTuning()
	got, err := VariantTuning(base, VariantSpec{
		Name:      "fast",
		Overrides: map[string]any{"grapple": map[string]any{"speed": 45}},
	})
	if err != nil {
		t.Fatalf("VariantTuning: %v", err)
	}
	if got.Grapple.Speed != 45 || got.Grapple.Range != base.Grapple.Range {
		t.Fatalf("unexpected grapple tuning %+v", got.Grapple)
	}

	_, err = VariantTuning(base, VariantSpec{
		Name:      "broken",
		Overrides: map[string]any{"focus": map[string]any{"max": 0}},
	})
	if !errors.Is(err, movement.ErrInvalidTuning) {
		t.Fatalf("expected ErrInvalidTuning, got %v", err)
	}
}

func TestParseLayerAndAction(t *testing.T) {
	layers := []struct {
		in   string
		want movement.Layer
	}{
		{"", movement.LayerGround},
		{"Wall", movement.LayerWall},
		{"ceiling", movement.LayerCeiling},
		{"block", movement.LayerGround | movement.LayerWall},
	}
	for _, l := range layers {
		got, err := ParseLayer(l.in)
		if err != nil || got != l.want {
			t.Fatalf("ParseLayer(%q) = %v, %v", l.in, got, err)
		}
	}
	if _, err := ParseLayer("lava"); err == nil {
		t.Fatal("expected unknown layer error")
	}

	if a, err := ParseAction("grapple"); err != nil || a != movement.ActionGrapple {
		t.Fatalf("ParseAction(grapple) = %v, %v", a, err)
	}
	if _, err := ParseAction("dance"); err == nil {
		t.Fatal("expected unknown action error")
	}
}

func TestCleanPaths(t *testing.T) {
	cases := []struct {
		in, prefab, script string
	}{
		{"tuning.yaml", "tuning.yaml", "scripts/tuning.yaml"},
		{"prefabs/scene.yaml", "scene.yaml", "scripts/scene.yaml"},
		{"bob.tengo", "bob.tengo", "scripts/bob.tengo"},
		{"prefabs/scripts/bob.tengo", "scripts/bob.tengo", "scripts/bob.tengo"},
	}
	for _, c := range cases {
		if got := cleanPrefabPath(c.in); got != c.prefab {
			t.Fatalf("cleanPrefabPath(%q) = %q, want %q", c.in, got, c.prefab)
		}
		if got := cleanScriptPath(c.in); got != c.script {
			t.Fatalf("cleanScriptPath(%q) = %q, want %q", c.in, got, c.script)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Change
		ok   bool
	}{
		{"prefabs/tuning.yaml", Change{Name: "tuning.yaml", Kind: ChangeSpec}, true},
		{"prefabs/scripts/bob.tengo", Change{Name: "scripts/bob.tengo", Kind: ChangeScript}, true},
		{"prefabs/notes.txt", Change{}, false},
	}
	for _, c := range cases {
		got, ok := classify(c.path)
		if ok != c.ok || got != c.want {
			t.Fatalf("classify(%q) = %+v, %v", c.path, got, ok)
		}
	}
}
