package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestExpDecay(t *testing.T) {
	cases := []struct {
		name           string
		current, goal  float32
		rate, dt       float32
		wantUnchanged  bool
		wantBetweenEnd bool
	}{
		{"zero_rate", 5, 0, 0, 1.0 / 60, true, false},
		{"zero_dt", 5, 0, 4, 0, true, false},
		{"toward_zero", 5, 0, 4, 1.0 / 60, false, true},
		{"toward_negative", 2, -3, 4, 1.0 / 60, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ExpDecay(c.current, c.goal, c.rate, c.dt)
			if c.wantUnchanged && got != c.current {
				t.Fatalf("expected %v unchanged, got %v", c.current, got)
			}
			if c.wantBetweenEnd {
				lo, hi := math32.Min(c.current, c.goal), math32.Max(c.current, c.goal)
				if got <= lo || got >= hi {
					t.Fatalf("expected %v strictly between %v and %v", got, lo, hi)
				}
			}
		})
	}
}

func TestMoveTowards(t *testing.T) {
	if got := MoveTowards(0, 10, 3); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if got := MoveTowards(9, 10, 3); got != 10 {
		t.Fatalf("expected clamp to 10, got %v", got)
	}
	if got := MoveTowards(0, -10, 3); got != -3 {
		t.Fatalf("expected -3, got %v", got)
	}
}

func TestFlattenAndNormalize(t *testing.T) {
	if got := Flatten(mgl32.Vec3{0, 5, 0}); got != (mgl32.Vec3{}) {
		t.Fatalf("expected zero vector for vertical input, got %v", got)
	}
	got := Flatten(mgl32.Vec3{3, 7, 4})
	if math32.Abs(got.Len()-1) > 1e-5 || got.Y() != 0 {
		t.Fatalf("expected unit horizontal vector, got %v", got)
	}
	if SafeNormalize(mgl32.Vec3{1e-7, 0, 0}) != (mgl32.Vec3{}) {
		t.Fatalf("expected near-zero input to normalize to zero")
	}
}

func TestAngleBetween(t *testing.T) {
	slope := mgl32.Vec3{0, math32.Cos(mgl32.DegToRad(30)), math32.Sin(mgl32.DegToRad(30))}
	if got := AngleBetween(slope, Up); math32.Abs(got-30) > 1e-3 {
		t.Fatalf("expected 30 degrees, got %v", got)
	}
	if got := AngleBetween(mgl32.Vec3{}, Up); got != 0 {
		t.Fatalf("expected 0 for zero vector, got %v", got)
	}
}

func TestProjectOnPlane(t *testing.T) {
	got := ProjectOnPlane(mgl32.Vec3{1, -1, 0}, Up)
	if got != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected vertical component removed, got %v", got)
	}
}
