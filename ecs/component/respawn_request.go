package component

// RespawnRequest is a marker asking the player system to move the player back
// to its Spawn and reset the controller.
type RespawnRequest struct{}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
