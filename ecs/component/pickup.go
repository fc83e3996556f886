package component

type PickupEffect string

const (
	// PickupSpeedBuff scales momentum accrual for Duration seconds by
	// Multiplier and restores Amount focus.
	PickupSpeedBuff PickupEffect = "speed_buff"
	// PickupMaxFocus changes the focus cap by Amount.
	PickupMaxFocus PickupEffect = "max_focus"
	// PickupStartFocus adds Amount to the focus granted on respawn, or sets
	// it when Set is true.
	PickupStartFocus PickupEffect = "start_focus"
)

// Pickup is a hovering trigger volume that applies its effect to the player
// once on overlap.
type Pickup struct {
	Effect     PickupEffect
	Amount     float32
	Duration   float32
	Multiplier float32
	Set        bool
	// Persistent pickups stay collected across respawns.
	Persistent bool
	HalfSize   float32

	BobAmplitude float32
	// BobFrequency is in cycles per second.
	BobFrequency float32
	BobPhase     float32
	BaseY        float32
	Initialized  bool

	Collected bool
}

var PickupComponent = NewComponent[Pickup]()
