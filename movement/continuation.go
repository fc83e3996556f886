package movement

// Continuation is a countdown ticked once per simulation step. It replaces
// "wait N seconds then do X" with explicit state the owner can inspect,
// restart or cancel.
type Continuation struct {
	remaining float32
	active    bool
}

// Start begins (or restarts) the countdown. Non-positive durations are
// ignored and leave any running countdown untouched.
func (c *Continuation) Start(duration float32) bool {
	if c == nil || duration <= 0 {
		return false
	}
	c.remaining = duration
	c.active = true
	return true
}

// Restart cancels a running countdown before starting a new one, so a
// rejected duration still leaves the continuation idle.
func (c *Continuation) Restart(duration float32) bool {
	c.Cancel()
	return c.Start(duration)
}

func (c *Continuation) Cancel() {
	if c == nil {
		return
	}
	c.remaining = 0
	c.active = false
}

// Tick advances the countdown and reports true exactly once, on the step it
// expires.
func (c *Continuation) Tick(dt float32) bool {
	if c == nil || !c.active {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.active = false
	return true
}

func (c *Continuation) Active() bool {
	return c != nil && c.active
}

func (c *Continuation) Remaining() float32 {
	if c == nil {
		return 0
	}
	return c.remaining
}
