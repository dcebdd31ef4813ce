package service

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/smartcity/roadsafety/internal/domain"
)

// MaxZoom is the deepest zoom level accepted by the heatmap layer.
const MaxZoom = 24

// Paint ramps of the accident heatmap.
var (
	severityWeight  = domain.Ramp{{In: 0, Out: 0}, {In: 10, Out: 1}}
	radiusByZoom    = domain.Ramp{{In: 0, Out: 2}, {In: 9, Out: 20}}
	intensityByZoom = domain.Ramp{{In: 0, Out: 1}, {In: 9, Out: 3}}
	opacityByZoom   = domain.Ramp{{In: 7, Out: 1}, {In: 9, Out: 0}}

	densityColors = []domain.ColorStop{
		{Density: 0, Color: "rgba(33,102,172,0)"},
		{Density: 0.2, Color: "rgb(103,169,207)"},
		{Density: 0.4, Color: "rgb(209,229,240)"},
		{Density: 0.6, Color: "rgb(253,219,199)"},
		{Density: 0.8, Color: "rgb(239,138,98)"},
		{Density: 1, Color: "rgb(178,24,43)"},
	}
)

// SeverityWeight maps a severity on [0,10] to a heatmap weight on [0,1], clamping outside.
func SeverityWeight(severity float64) float64 {
	return severityWeight.At(severity)
}

// BuildDensitySpec turns incidents into the heatmap description consumed by the
// map renderer. It is a pure function of its input.
func BuildDensitySpec(incidents []domain.Incident) domain.DensitySpec {
	points := make([]domain.HeatmapPoint, 0, len(incidents))
	for _, inc := range incidents {
		points = append(points, domain.HeatmapPoint{
			Latitude:  inc.Position.Lat,
			Longitude: inc.Position.Lon,
			Severity:  inc.Severity,
			Weight:    SeverityWeight(inc.Severity),
		})
	}

	return domain.DensitySpec{
		Points:    points,
		Weight:    slices.Clone(severityWeight),
		Radius:    slices.Clone(radiusByZoom),
		Intensity: slices.Clone(intensityByZoom),
		Opacity:   slices.Clone(opacityByZoom),
		Color:     slices.Clone(densityColors),
	}
}

// IncidentFeatures builds the GeoJSON point source for the heatmap layer.
func IncidentFeatures(incidents []domain.Incident) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, inc := range incidents {
		f := geojson.NewFeature(orb.Point{inc.Position.Lon, inc.Position.Lat})
		f.Properties["severity"] = inc.Severity
		f.Properties["weight"] = SeverityWeight(inc.Severity)
		fc.Append(f)
	}
	return fc
}

// HeatmapLayer is everything a client needs to draw the accident heatmap.
type HeatmapLayer struct {
	Source *geojson.FeatureCollection `json:"source"`
	Paint  map[string]any             `json:"paint"`
	Spec   domain.DensitySpec         `json:"spec"`
	AtZoom *domain.ZoomLayer          `json:"atZoom,omitempty"`
}

// HeatmapService renders the loaded incidents as a heatmap layer
type HeatmapService struct {
	incidents IncidentSource
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(incidents IncidentSource) *HeatmapService {
	return &HeatmapService{incidents: incidents}
}

// Layer builds the heatmap layer. zoomRaw is optional; when set, the
// zoom-dependent paint values are resolved for that zoom.
func (s *HeatmapService) Layer(zoomRaw string) (HeatmapLayer, error) {
	var atZoom *float64
	if z := strings.TrimSpace(zoomRaw); z != "" {
		v, err := strconv.ParseFloat(z, 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > MaxZoom {
			return HeatmapLayer{}, fmt.Errorf("%w: zoom must be a number between 0 and %d", domain.ErrInvalidInput, MaxZoom)
		}
		atZoom = &v
	}

	incidents := s.incidents.Incidents()
	spec := BuildDensitySpec(incidents)
	layer := HeatmapLayer{
		Source: IncidentFeatures(incidents),
		Paint:  spec.Paint(),
		Spec:   spec,
	}
	if atZoom != nil {
		zl := spec.AtZoom(*atZoom)
		layer.AtZoom = &zl
	}
	return layer, nil
}
