package main

import (
	"sync"

	"github.com/taigrr/view3d/pkg/math3d"
)

// pixelBoard hosts a view on a framebuffer. User units are framebuffer
// pixels with y pointing up; screen coordinates are pixels with y down.
type pixelBoard struct {
	mu            sync.Mutex
	width, height int

	// redraw holds at most one pending redraw request.
	redraw chan struct{}
}

func newPixelBoard(width, height int) *pixelBoard {
	return &pixelBoard{
		width:  width,
		height: height,
		redraw: make(chan struct{}, 1),
	}
}

func (b *pixelBoard) Update() {
	select {
	case b.redraw <- struct{}{}:
	default:
	}
}

func (b *pixelBoard) UnitX() float64 { return 1 }
func (b *pixelBoard) UnitY() float64 { return 1 }

func (b *pixelBoard) CanvasSize() (width, height float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return float64(b.width), float64(b.height)
}

func (b *pixelBoard) UserToScreen(p math3d.Vec2) math3d.Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return math3d.V2(p.X, float64(b.height-1)-p.Y)
}

// ScreenToUser is the inverse of UserToScreen.
func (b *pixelBoard) ScreenToUser(p math3d.Vec2) math3d.Vec2 {
	return b.UserToScreen(p)
}

// DragActive is always false: the viewer has no draggable board elements.
func (b *pixelBoard) DragActive() bool { return false }

func (b *pixelBoard) resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.mu.Unlock()
}
