package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// TargetTag marks a grapple target. Clipping lets the player pass through it
// while homing.
type TargetTag struct {
	Clipping bool
}

var TargetTagComponent = NewComponent[TargetTag]()
