// view3d - terminal viewer for an interactive 3D view box.
// A box with a polyhedron, a sampled surface and a movable section plane is
// drawn under parallel or central projection and turned with the mouse,
// the keyboard or a virtual trackball.
//
// Controls:
//
//	Mouse drag   - Turn azimuth/elevation (or the trackball when enabled)
//	Wheel        - Bank while dragging
//	Arrow keys   - Step azimuth and elevation
//	< > , .      - Step bank
//	PgUp/PgDown  - Next/previous preset view
//	T            - Toggle trackball
//	P            - Toggle parallel/central projection
//	A            - Toggle azimuth animation
//	S            - Toggle surface
//	[ ]          - Move the section plane down/up
//	?            - Toggle HUD
//	Esc, Q       - Quit
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
