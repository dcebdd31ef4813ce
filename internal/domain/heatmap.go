package domain

import (
	"encoding/json"

	"github.com/smartcity/roadsafety/pkg/utils"
)

// HeatmapPoint represents a single weighted point of the density layer
type HeatmapPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Severity  float64 `json:"severity"`
	Weight    float64 `json:"weight"`
}

// Stop is one breakpoint of a piecewise-linear ramp.
type Stop struct {
	In  float64 `json:"in"`
	Out float64 `json:"out"`
}

// Ramp maps an input (severity, zoom) to an output by linear interpolation
// between ordered stops. Inputs outside the stops clamp to the end values.
type Ramp []Stop

// At evaluates the ramp at x.
func (r Ramp) At(x float64) float64 {
	if len(r) == 0 {
		return 0
	}
	if x <= r[0].In {
		return r[0].Out
	}
	last := r[len(r)-1]
	if x >= last.In {
		return last.Out
	}
	for i := 1; i < len(r); i++ {
		lo, hi := r[i-1], r[i]
		if x > hi.In {
			continue
		}
		if hi.In == lo.In {
			return hi.Out
		}
		t := utils.Clamp((x-lo.In)/(hi.In-lo.In), 0, 1)
		return utils.Lerp(lo.Out, hi.Out, t)
	}
	return last.Out
}

// expression renders the ramp as a renderer interpolate expression over input.
func (r Ramp) expression(input any) []any {
	expr := []any{"interpolate", []any{"linear"}, input}
	for _, s := range r {
		expr = append(expr, s.In, s.Out)
	}
	return expr
}

// ColorStop pairs a density value with a CSS color string.
type ColorStop struct {
	Density float64 `json:"density"`
	Color   string  `json:"color"`
}

// DensitySpec is the declarative heatmap description handed to the map renderer.
type DensitySpec struct {
	Points    []HeatmapPoint `json:"points"`
	Weight    Ramp           `json:"weight"`    // severity -> weight
	Radius    Ramp           `json:"radius"`    // zoom -> px
	Intensity Ramp           `json:"intensity"` // zoom -> multiplier
	Opacity   Ramp           `json:"opacity"`   // zoom -> alpha
	Color     []ColorStop    `json:"color"`     // density -> color
}

// ZoomLayer holds the zoom-dependent paint values resolved for one zoom level.
type ZoomLayer struct {
	Zoom      float64 `json:"zoom"`
	Radius    float64 `json:"radius"`
	Intensity float64 `json:"intensity"`
	Opacity   float64 `json:"opacity"`
}

// AtZoom resolves radius, intensity and opacity for zoom.
func (d DensitySpec) AtZoom(zoom float64) ZoomLayer {
	return ZoomLayer{
		Zoom:      zoom,
		Radius:    d.Radius.At(zoom),
		Intensity: d.Intensity.At(zoom),
		Opacity:   d.Opacity.At(zoom),
	}
}

// Paint returns the heatmap paint properties in Mapbox GL expression form.
func (d DensitySpec) Paint() map[string]any {
	color := []any{"interpolate", []any{"linear"}, []any{"heatmap-density"}}
	for _, c := range d.Color {
		color = append(color, c.Density, c.Color)
	}
	return map[string]any{
		"heatmap-weight":    d.Weight.expression([]any{"get", "severity"}),
		"heatmap-intensity": d.Intensity.expression([]any{"zoom"}),
		"heatmap-color":     color,
		"heatmap-radius":    d.Radius.expression([]any{"zoom"}),
		"heatmap-opacity":   d.Opacity.expression([]any{"zoom"}),
	}
}

// PaintJSON is Paint encoded as JSON.
func (d DensitySpec) PaintJSON() ([]byte, error) {
	return json.Marshal(d.Paint())
}
