package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/view3d/pkg/math3d"
	"github.com/taigrr/view3d/pkg/render"
	"github.com/taigrr/view3d/pkg/view3d"
)

// wheelStep is the DeltaY of one wheel notch, in board pixels.
const wheelStep = 10

// viewKeys are forwarded to the view's keyboard handler.
var viewKeys = []string{
	view3d.KeyLeft, view3d.KeyRight, view3d.KeyUp, view3d.KeyDown,
	view3d.KeyPageUp, view3d.KeyPageDown, "<", ">", ",", ".",
}

func convertMod(m uv.KeyMod) view3d.Modifiers {
	var mod view3d.Modifiers
	if m&uv.ModShift != 0 {
		mod |= view3d.ModShift
	}
	if m&uv.ModCtrl != 0 {
		mod |= view3d.ModCtrl
	}
	if m&uv.ModAlt != 0 {
		mod |= view3d.ModAlt
	}
	return mod
}

func convertButton(b uv.MouseButton) int {
	switch b {
	case uv.MouseMiddle:
		return view3d.ButtonMiddle
	case uv.MouseRight:
		return view3d.ButtonRight
	default:
		return view3d.ButtonLeft
	}
}

// framebufferSize reserves the last terminal row for the HUD; every other
// row holds two pixels.
func framebufferSize(cols, rows int) (width, height int) {
	return max(cols, 1), max(2*(rows-1), 2)
}

// viewer owns the terminal session. Input events arrive on their own
// goroutine; drawing happens on the frame loop, and the two meet only
// through the View (which locks) and the channels below.
type viewer struct {
	term  *uv.Terminal
	view  *view3d.View
	board *pixelBoard
	scene *scene
	fb    *render.Framebuffer

	cols, rows int
	showHUD    bool

	// Frame-loop state written by the event goroutine.
	actions chan func()
	resize  chan uv.WindowSizeEvent

	// Pointer state, owned by the event goroutine.
	pressed bool
	lastX   float64
	lastY   float64

	// Last pointer position over the view, owned by the frame loop.
	hover      math3d.Vec2
	hoverValid bool
}

func runViewer(ctx context.Context, cfg view3d.Config, sc *scene, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	w, h := framebufferSize(cols, rows)
	board := newPixelBoard(w, h)
	v, err := view3d.NewView(board, math3d.V2(0, 0), math3d.V2(float64(w), float64(h)), sc.box, cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	vw := &viewer{
		term:    term,
		view:    v,
		board:   board,
		scene:   sc,
		fb:      render.NewFramebuffer(w, h),
		cols:    cols,
		rows:    rows,
		showHUD: true,
		actions: make(chan func(), 16),
		resize:  make(chan uv.WindowSizeEvent, 1),
	}

	go vw.handleEvents(ctx, cancel)
	return vw.loop(ctx, fps)
}

func (vw *viewer) loop(ctx context.Context, fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var (
		frames    int
		fpsStart  = time.Now()
		fpsActual float64
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-vw.resize:
			vw.applyResize(ev.Width, ev.Height)
		case act := <-vw.actions:
			act()
		case <-vw.board.redraw:
		case <-ticker.C:
			vw.view.Tick()
		}

		frames++
		if elapsed := time.Since(fpsStart); elapsed >= time.Second {
			fpsActual = float64(frames) / elapsed.Seconds()
			frames, fpsStart = 0, time.Now()
		}
		if err := vw.drawFrame(fpsActual); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}

func (vw *viewer) applyResize(cols, rows int) {
	vw.cols, vw.rows = cols, rows
	vw.term.Erase()
	vw.term.Resize(cols, rows)
	w, h := framebufferSize(cols, rows)
	vw.fb.Resize(w, h)
	vw.board.resize(w, h)
	vw.view.SetGeometry(math3d.V2(0, 0), math3d.V2(float64(w), float64(h)))
}

func (vw *viewer) drawFrame(fps float64) error {
	vw.view.Update()

	var hover *math3d.Vec2
	if vw.hoverValid {
		p := vw.hover
		hover = &p
	}
	out := vw.scene.draw(vw.fb, vw.view, hover)
	vw.fb.Draw(vw.term, uv.Rect(0, 0, vw.cols, vw.rows-1))

	line := hudBar.Width(vw.cols).Render("")
	if vw.showHUD {
		cfg := vw.view.Config()
		st := hudState{
			angles:     vw.view.Angles(),
			projection: cfg.Projection,
			trackball:  cfg.Trackball.Enabled,
			animating:  vw.view.Animating(),
			input:      vw.view.ActiveInput(),
			sectionZ:   vw.scene.sectionZ,
			section:    out.section,
			pick:       out.pick.PerspectiveDivide(),
			hasPick:    out.hasPick,
			fps:        fps,
		}
		line = st.render(vw.cols)
	}
	uv.NewStyledString(line).Draw(vw.term, uv.Rect(0, vw.rows-1, vw.cols, 1))
	return vw.term.Display()
}

// do runs f on the frame loop.
func (vw *viewer) do(ctx context.Context, f func()) {
	select {
	case vw.actions <- f:
	case <-ctx.Done():
	}
}

func (vw *viewer) handleEvents(ctx context.Context, cancel context.CancelFunc) {
	for ev := range vw.term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			select {
			case <-vw.resize:
			default:
			}
			vw.resize <- ev

		case uv.KeyPressEvent:
			if vw.handleKey(ctx, ev) {
				cancel()
				return
			}

		case uv.MouseClickEvent:
			vw.pressed = true
			x, y := vw.pointer(ev.X, ev.Y)
			vw.lastX, vw.lastY = x, y
			vw.view.PointerDown(view3d.PointerEvent{
				X: x, Y: y,
				Button: convertButton(ev.Button),
				Mod:    convertMod(ev.Mod),
				Inside: vw.inside(y),
			})

		case uv.MouseMotionEvent:
			x, y := vw.pointer(ev.X, ev.Y)
			hover, ok := vw.board.ScreenToUser(math3d.V2(x, y)), vw.inside(y)
			vw.do(ctx, func() { vw.hover, vw.hoverValid = hover, ok })
			if vw.pressed {
				vw.view.PointerMove(view3d.PointerEvent{
					X: x, Y: y,
					MovementX: x - vw.lastX,
					MovementY: y - vw.lastY,
					Mod:       convertMod(ev.Mod),
					Inside:    vw.inside(y),
				})
				vw.lastX, vw.lastY = x, y
			}

		case uv.MouseReleaseEvent:
			vw.pressed = false
			vw.view.PointerUp()

		case uv.MouseWheelEvent:
			delta := float64(wheelStep)
			if ev.Button == uv.MouseWheelUp {
				delta = -delta
			}
			_, y := vw.pointer(ev.X, ev.Y)
			vw.view.Wheel(view3d.WheelEvent{DeltaY: delta, Mod: convertMod(ev.Mod), Inside: vw.inside(y)})
		}
	}
}

// pointer converts a terminal cell to framebuffer pixel coordinates.
func (vw *viewer) pointer(col, row int) (x, y float64) {
	return float64(col), float64(2*row) + 0.5
}

func (vw *viewer) inside(y float64) bool {
	_, h := vw.board.CanvasSize()
	return y >= 0 && y < h
}

// handleKey applies viewer shortcuts and forwards the rest to the view.
// It reports whether the viewer should quit.
func (vw *viewer) handleKey(ctx context.Context, ev uv.KeyPressEvent) bool {
	v := vw.view
	switch {
	case ev.MatchString("esc", "escape", "q", "ctrl+c"):
		return true
	case ev.MatchString("t"):
		cfg := v.Config()
		cfg.Trackball.Enabled = !cfg.Trackball.Enabled
		_ = v.SetConfig(cfg)
	case ev.MatchString("p"):
		cfg := v.Config()
		if cfg.Projection == view3d.Parallel {
			cfg.Projection = view3d.Central
		} else {
			cfg.Projection = view3d.Parallel
		}
		_ = v.SetConfig(cfg)
	case ev.MatchString("a"):
		if v.Animating() {
			v.StopAzimuthAnimation()
		} else {
			v.StartAzimuthAnimation()
		}
	case ev.MatchString("s"):
		vw.do(ctx, func() { vw.scene.surface = !vw.scene.surface })
	case ev.MatchString("["):
		vw.do(ctx, func() { vw.scene.moveSection(-1) })
	case ev.MatchString("]"):
		vw.do(ctx, func() { vw.scene.moveSection(1) })
	case ev.MatchString("?", "shift+/"):
		vw.do(ctx, func() { vw.showHUD = !vw.showHUD })
	default:
		if k, ok := viewKey(ev); ok {
			v.KeyDown(view3d.KeyEvent{Key: k, Mod: convertMod(ev.Mod)})
		}
	}
	return false
}

// viewKey names the view key pressed, with or without modifiers, so that
// modifier-gated keyboard channels see the bare key.
func viewKey(ev uv.KeyPressEvent) (string, bool) {
	for _, k := range viewKeys {
		for _, prefix := range []string{"", "shift+", "ctrl+", "alt+", "ctrl+shift+"} {
			if ev.MatchString(prefix + k) {
				return k, true
			}
		}
	}
	return "", false
}
