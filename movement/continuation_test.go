package movement

import "testing"

func TestContinuationExpiresOnce(t *testing.T) {
	var c Continuation
	if !c.Start(0.1) {
		t.Fatalf("expected start to succeed")
	}
	fired := 0
	for i := 0; i < 20; i++ {
		if c.Tick(dt) {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("expected exactly one expiry, got %d", fired)
	}
	if c.Active() || c.Remaining() != 0 {
		t.Fatalf("expected idle continuation, active=%v remaining=%v", c.Active(), c.Remaining())
	}
}

func TestContinuationStart(t *testing.T) {
	cases := []struct {
		name     string
		initial  float32
		duration float32
		restart  bool
		ok       bool
		active   bool
		want     float32
	}{
		{name: "zero_is_noop", duration: 0, ok: false, active: false, want: 0},
		{name: "negative_is_noop", duration: -1, ok: false, active: false, want: 0},
		{name: "zero_keeps_running", initial: 2, duration: 0, ok: false, active: true, want: 2},
		{name: "start_replaces", initial: 2, duration: 1, ok: true, active: true, want: 1},
		{name: "restart_zero_cancels", initial: 2, duration: 0, restart: true, ok: false, active: false, want: 0},
		{name: "restart_replaces", initial: 2, duration: 3, restart: true, ok: true, active: true, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Continuation
			c.Start(tc.initial)
			var ok bool
			if tc.restart {
				ok = c.Restart(tc.duration)
			} else {
				ok = c.Start(tc.duration)
			}
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if c.Active() != tc.active {
				t.Fatalf("expected active=%v, got %v", tc.active, c.Active())
			}
			if c.Remaining() != tc.want {
				t.Fatalf("expected remaining %v, got %v", tc.want, c.Remaining())
			}
		})
	}
}

func TestContinuationCancelSuppressesExpiry(t *testing.T) {
	var c Continuation
	c.Start(dt)
	c.Cancel()
	if c.Tick(dt) {
		t.Fatalf("cancelled continuation should not fire")
	}
}

func TestNilContinuationIsInert(t *testing.T) {
	var c *Continuation
	if c.Start(1) || c.Tick(1) || c.Active() || c.Remaining() != 0 {
		t.Fatalf("nil continuation should be inert")
	}
	c.Cancel()
}
