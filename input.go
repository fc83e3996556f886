package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/grapplerun/ecs/system"
	"github.com/milk9111/grapplerun/movement"
)

const (
	stickDeadzone = 0.2
	// stickLookSpeed is the pixel-equivalent look delta per tick at full tilt.
	stickLookSpeed = 12
)

// Input turns keyboard, mouse and gamepad state into controller actions on
// the player's input buffer.
type Input struct {
	move     mgl32.Vec2
	captured bool
	lastX    int
	lastY    int
}

func NewInput() *Input {
	return &Input{}
}

// Recapture grabs the cursor again, for example after the pause menu.
func (i *Input) Recapture() {
	i.captured = false
}

func (i *Input) Update(scene *system.Scene) {
	in := scene.Input()
	if in == nil {
		return
	}

	move := mgl32.Vec2{}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		move[1]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		move[1]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		move[0]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		move[0]--
	}

	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	jumpReleased := inpututil.IsKeyJustReleased(ebiten.KeySpace)
	attack := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	grapple := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) || inpututil.IsKeyJustPressed(ebiten.KeyE)
	slidePressed := inpututil.IsKeyJustPressed(ebiten.KeyControlLeft) || inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft)
	slideReleased := inpututil.IsKeyJustReleased(ebiten.KeyControlLeft) || inpututil.IsKeyJustReleased(ebiten.KeyShiftLeft)

	var lookX, lookY float32
	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := float32(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal))
		ly := float32(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical))
		if math32.Hypot(lx, ly) > stickDeadzone {
			move = mgl32.Vec2{lx, -ly}
		}

		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpReleased = jumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)
		attack = attack || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		grapple = grapple || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		slidePressed = slidePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		slideReleased = slideReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightRight)

		rx := float32(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal))
		ry := float32(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical))
		if math32.Hypot(rx, ry) > stickDeadzone {
			lookX, lookY = rx*stickLookSpeed, ry*stickLookSpeed
		}
	}
	if move.Len() > 1 {
		move = move.Normalize()
	}

	if move != i.move {
		in.Push(movement.ActionMove, movement.Move(move.X(), move.Y()))
		i.move = move
	}
	if jumpPressed {
		in.Push(movement.ActionJump, movement.Pressed())
	}
	if jumpReleased {
		in.Push(movement.ActionJump, movement.Released())
	}
	if slidePressed {
		in.Push(movement.ActionSlide, movement.Pressed())
	}
	if slideReleased {
		in.Push(movement.ActionSlide, movement.Released())
	}
	if attack {
		in.Push(movement.ActionAttack, movement.Pressed())
	}
	if grapple {
		in.Push(movement.ActionGrapple, movement.Pressed())
	}

	mx, my := i.mouseDelta()
	scene.View.Look(lookX+mx, lookY+my)
}

// mouseDelta captures the cursor on first use and returns the movement since
// the previous tick.
func (i *Input) mouseDelta() (float32, float32) {
	x, y := ebiten.CursorPosition()
	if !i.captured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		i.captured = true
		i.lastX, i.lastY = x, y
		return 0, 0
	}
	dx, dy := x-i.lastX, y-i.lastY
	i.lastX, i.lastY = x, y
	return float32(dx), float32(dy)
}
