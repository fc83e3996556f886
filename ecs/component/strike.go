package component

// Strike is the player's melee volume: a sphere Reach ahead of the eye.
// HitTargets records who was already struck during the open window.
type Strike struct {
	Radius     float32
	Reach      float32
	Damage     float32
	Open       bool
	HitTargets map[uint64]bool
}

var StrikeComponent = NewComponent[Strike]()
