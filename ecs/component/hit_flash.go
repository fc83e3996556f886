package component

// HitFlash tints a target for Remaining seconds after it is struck.
type HitFlash struct {
	Remaining float32
}

var HitFlashComponent = NewComponent[HitFlash]()
