package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_Valid(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"bangalore", Position{Lat: 12.9716, Lon: 77.5946}, true},
		{"corners", Position{Lat: -90, Lon: 180}, true},
		{"lat too high", Position{Lat: 90.1, Lon: 0}, false},
		{"lon too low", Position{Lat: 0, Lon: -180.5}, false},
		{"nan", Position{Lat: math.NaN(), Lon: 0}, false},
		{"inf", Position{Lat: 0, Lon: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.Valid())
		})
	}
}

func TestPosition_Coordinates(t *testing.T) {
	assert.Equal(t, [2]float64{77.5946, 12.9716}, Position{Lat: 12.9716, Lon: 77.5946}.Coordinates())
}

func TestHospitalRef_Position(t *testing.T) {
	pos, ok := HospitalRef{Coordinates: []float64{77.59, 12.97}}.Position()
	assert.True(t, ok)
	assert.Equal(t, Position{Lat: 12.97, Lon: 77.59}, pos)

	_, ok = HospitalRef{}.Position()
	assert.False(t, ok)

	_, ok = HospitalRef{Coordinates: []float64{12.97, 95}}.Position()
	assert.False(t, ok)
}

func TestIncident_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Incident{
		Position:    Position{Lat: 12.97, Lon: 77.59},
		Severity:    7,
		Weather:     "Rain",
		RoadSurface: "Wet",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"latitude":12.97,"longitude":77.59,"severity":7,"weather":"Rain","roadSurface":"Wet"}`, string(raw))
}

func TestRamp_At(t *testing.T) {
	r := Ramp{{In: 0, Out: 2}, {In: 9, Out: 20}, {In: 12, Out: 20}}

	assert.Equal(t, 2.0, r.At(-3))
	assert.Equal(t, 2.0, r.At(0))
	assert.InDelta(t, 11.0, r.At(4.5), 1e-12)
	assert.Equal(t, 20.0, r.At(9))
	assert.Equal(t, 20.0, r.At(10))
	assert.Equal(t, 20.0, r.At(100))

	assert.Equal(t, 0.0, Ramp{}.At(5))
}

func TestRamp_Decreasing(t *testing.T) {
	r := Ramp{{In: 7, Out: 1}, {In: 9, Out: 0}}

	assert.Equal(t, 1.0, r.At(0))
	assert.InDelta(t, 0.75, r.At(7.5), 1e-12)
	assert.Equal(t, 0.0, r.At(22))
}

func TestRamp_Expression(t *testing.T) {
	r := Ramp{{In: 0, Out: 0}, {In: 10, Out: 1}}
	assert.Equal(t,
		[]any{"interpolate", []any{"linear"}, []any{"get", "severity"}, 0.0, 0.0, 10.0, 1.0},
		r.expression([]any{"get", "severity"}),
	)
}
