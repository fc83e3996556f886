package movement

// gatedAction is a resource-consuming action. failWhen decides whether a
// focus-starved attempt is reported to the UI; nil means it fails silently.
type gatedAction struct {
	action   Action
	cost     float32
	ready    func() bool
	perform  func()
	failWhen func() bool
}

// gate runs a resource action. Focus is never spent while it is at or below
// zero, and only spent when the action actually happens.
func (c *Controller) gate(a gatedAction) bool {
	if c.momentum.Focus() <= 0 {
		if a.failWhen != nil && a.failWhen() {
			c.ui.ActionFailed(a.action)
			c.log.WithField("action", a.action).Debug("action failed: no focus")
		}
		return false
	}
	if a.ready != nil && !a.ready() {
		return false
	}
	c.momentum.SpendFocus(a.cost)
	if a.perform != nil {
		a.perform()
	}
	return true
}
