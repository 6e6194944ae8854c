package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/taigrr/view3d/pkg/models"
	"github.com/taigrr/view3d/pkg/view3d"
)

// configFlags are the view settings shared by every command. Flags that
// were set explicitly override the config file.
type configFlags struct {
	path       string
	projection string
	fov        float64
	trackball  bool
	r          view3d.Distance
}

func (f *configFlags) register(cmd *cobra.Command) {
	f.r = view3d.AutoDistance()
	fs := cmd.PersistentFlags()
	fs.StringVarP(&f.path, "config", "c", "", "JSON view configuration file")
	fs.StringVar(&f.projection, "projection", "parallel", "Projection type (parallel|central)")
	fs.Float64Var(&f.fov, "fov", 2*math.Pi/5, "Field of view for central projection (radians)")
	fs.BoolVar(&f.trackball, "trackball", false, "Start with the virtual trackball enabled")
	fs.Var(&f.r, "r", `Camera distance for central projection ("auto" or a number)`)
}

func (f *configFlags) load(cmd *cobra.Command) (view3d.Config, error) {
	cfg := view3d.DefaultConfig()
	if f.path != "" {
		var err error
		if cfg, err = view3d.LoadConfig(f.path); err != nil {
			return view3d.Config{}, err
		}
	}

	fs := cmd.Flags()
	if fs.Changed("projection") {
		typ, err := view3d.ParseProjectionType(f.projection)
		if err != nil {
			return view3d.Config{}, err
		}
		cfg.Projection = typ
	}
	if fs.Changed("fov") {
		cfg.FOV = f.fov
	}
	if fs.Changed("trackball") {
		cfg.Trackball.Enabled = f.trackball
	}
	if fs.Changed("r") {
		cfg.R = f.r
	}
	if err := cfg.Validate(); err != nil {
		return view3d.Config{}, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func modelArg(args []string) string {
	if len(args) == 0 {
		return "cube"
	}
	return args[0]
}

func newRootCmd() *cobra.Command {
	var (
		flags configFlags
		fps   int
	)

	cmd := &cobra.Command{
		Use:   "view3d [model.glb|cube|octahedron|tetrahedron]",
		Short: "Interactive 3D view box in the terminal",
		Long: `view3d - interactive 3D view box in the terminal

Shows a world box holding a polyhedron, a sampled surface and a section
plane, projected in parallel or central perspective.

Controls:
  Mouse drag   - Turn azimuth/elevation (or the trackball when enabled)
  Wheel        - Bank while dragging
  Arrow keys   - Step azimuth and elevation
  < > , .      - Step bank
  PgUp/PgDown  - Next/previous preset view
  T            - Toggle trackball
  P            - Toggle parallel/central projection
  A            - Toggle azimuth animation
  S            - Toggle surface
  [ ]          - Move the section plane
  ?            - Toggle HUD
  Esc, Q       - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			sc, err := newScene(modelArg(args))
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), cfg, sc, fps)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "Target FPS")

	cmd.AddCommand(newSnapshotCmd(&flags), newInfoCmd(&flags))
	return cmd
}

func newInfoCmd(flags *configFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info [model]",
		Short: "Display model and view information",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			mesh, err := models.Load(modelArg(args))
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), infoText(mesh, cfg))
			return nil
		},
	}
}
