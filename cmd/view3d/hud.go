package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/taigrr/view3d/pkg/math3d"
	"github.com/taigrr/view3d/pkg/models"
	"github.com/taigrr/view3d/pkg/view3d"
)

var (
	hudLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8aa0"))
	hudValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0f0f0")).Bold(true)
	hudOn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#40dc40")).Bold(true)
	hudWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb000")).Bold(true)
	hudBar   = lipgloss.NewStyle().Background(lipgloss.Color("#14141c"))
	hudSep   = hudLabel.Render(" │ ")
)

// hudState is the live state shown in the status line.
type hudState struct {
	angles     view3d.Angles
	projection view3d.ProjectionType
	trackball  bool
	animating  bool
	input      view3d.ActiveInput
	sectionZ   float64
	section    view3d.Section
	pick       math3d.Vec3
	hasPick    bool
	fps        float64
}

func field(label, value string) string {
	return hudLabel.Render(label+" ") + hudValue.Render(value)
}

func toggle(label string, on bool) string {
	if on {
		return hudOn.Render(label)
	}
	return hudLabel.Render(label)
}

func sectionStatus(s view3d.Section) string {
	switch {
	case len(s.Points) == 0:
		return hudLabel.Render("none")
	case s.Err != nil:
		return hudWarn.Render(fmt.Sprintf("open (%d)", len(s.Points)))
	default:
		return hudValue.Render(fmt.Sprintf("closed (%d)", len(s.Points)))
	}
}

// render formats the status line, cut to width cells.
func (h hudState) render(width int) string {
	parts := []string{
		field("az", fmt.Sprintf("%.2f", h.angles.Az)),
		field("el", fmt.Sprintf("%.2f", h.angles.El)),
		field("bank", fmt.Sprintf("%.2f", h.angles.Bank)),
		hudValue.Render(h.projection.String()),
		toggle("trackball", h.trackball),
		toggle("spin", h.animating),
		field("input", h.input.String()),
		field("z", fmt.Sprintf("%.2f", h.sectionZ)) + " " + sectionStatus(h.section),
	}
	if h.hasPick {
		parts = append(parts, field("pick", fmt.Sprintf("(%.2f, %.2f, %.2f)", h.pick.X, h.pick.Y, h.pick.Z)))
	}
	if h.fps > 0 {
		parts = append(parts, field("fps", fmt.Sprintf("%.0f", h.fps)))
	}
	line := ansi.Truncate(strings.Join(parts, hudSep), width, "…")
	return hudBar.Width(width).Render(line)
}

// infoText describes a model and the view configuration.
func infoText(m *models.Mesh, cfg view3d.Config) string {
	title := lipgloss.NewStyle().Bold(true).Underline(true)
	size := m.Size()
	lines := []string{
		title.Render(m.Name),
		field("Vertices:  ", fmt.Sprintf("%d", m.VertexCount())),
		field("Triangles: ", fmt.Sprintf("%d", m.TriangleCount())),
		field("Size:      ", fmt.Sprintf("%.3f x %.3f x %.3f", size.X, size.Y, size.Z)),
		field("Projection:", cfg.Projection.String()),
		field("FOV:       ", fmt.Sprintf("%.3f rad", cfg.FOV)),
		field("Distance:  ", cfg.R.String()),
		field("Trackball: ", fmt.Sprintf("%t", cfg.Trackball.Enabled)),
		field("Presets:   ", fmt.Sprintf("%d", len(cfg.Values))),
	}
	return strings.Join(lines, "\n") + "\n"
}
