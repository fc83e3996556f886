package component

import "github.com/milk9111/grapplerun/movement"

type Player struct {
	Controller *movement.Controller
}

var PlayerComponent = NewComponent[Player]()
