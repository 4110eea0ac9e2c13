package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, Distance(51.5074, -0.1278, 51.5074, -0.1278))
		assert.Equal(t, 0.0, Distance(0, 0, 0, 0))
	})

	t.Run("london to manchester", func(t *testing.T) {
		d := Distance(51.5074, -0.1278, 53.4808, -2.2426)
		assert.InDelta(t, 262.0, d, 1.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Distance(51.5074, -0.1278, 53.4808, -2.2426)
		b := Distance(53.4808, -2.2426, 51.5074, -0.1278)
		assert.InDelta(t, a, b, 1e-9)
	})

	t.Run("antipodes", func(t *testing.T) {
		d := Distance(0, 0, 0, 180)
		assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
		assert.InDelta(t, 20015.0, d, 1.0)

		d = Distance(51.5, 0, -51.5, 180)
		assert.InDelta(t, 20015.0, d, 1.0)
	})

	t.Run("longitude wraparound", func(t *testing.T) {
		d := Distance(0, 179.9, 0, -179.9)
		assert.InDelta(t, 22.24, d, 0.1)
	})

	t.Run("non-negative", func(t *testing.T) {
		points := [][4]float64{
			{-90, -180, 90, 180},
			{10, 10, -10, -10},
			{0.0001, 0, 0, 0.0001},
		}
		for _, p := range points {
			assert.GreaterOrEqual(t, Distance(p[0], p[1], p[2], p[3]), 0.0)
		}
	})
}

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr error
	}{
		{name: "origin", coord: Coordinate{0, 0}},
		{name: "corners", coord: Coordinate{-90, 180}},
		{name: "london", coord: Coordinate{51.5074, -0.1278}},
		{name: "latitude too high", coord: Coordinate{90.01, 0}, wantErr: ErrLatitudeOutOfRange},
		{name: "latitude too low", coord: Coordinate{-91, 0}, wantErr: ErrLatitudeOutOfRange},
		{name: "longitude too high", coord: Coordinate{0, 180.5}, wantErr: ErrLongitudeOutOfRange},
		{name: "longitude NaN", coord: Coordinate{0, math.NaN()}, wantErr: ErrLongitudeOutOfRange},
		{name: "latitude Inf", coord: Coordinate{math.Inf(1), 0}, wantErr: ErrLatitudeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coord.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCoordinate_DistanceTo(t *testing.T) {
	london := Coordinate{Latitude: 51.5074, Longitude: -0.1278}
	manchester := Coordinate{Latitude: 53.4808, Longitude: -2.2426}
	assert.InDelta(t, Distance(51.5074, -0.1278, 53.4808, -2.2426), london.DistanceTo(manchester), 1e-9)
}

type candidate struct {
	name     string
	distance float64
	known    bool
}

func candidateDistance(c candidate) (float64, bool) {
	return c.distance, c.known
}

func names(cs []candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.name
	}
	return out
}

func TestSortByDistance(t *testing.T) {
	t.Run("ascending", func(t *testing.T) {
		cs := []candidate{
			{"c", 3, true},
			{"a", 1, true},
			{"b", 2, true},
		}
		SortByDistance(cs, candidateDistance)
		assert.Equal(t, []string{"a", "b", "c"}, names(cs))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		cs := []candidate{
			{"first", 5, true},
			{"near", 1, true},
			{"second", 5, true},
			{"third", 5, true},
		}
		SortByDistance(cs, candidateDistance)
		assert.Equal(t, []string{"near", "first", "second", "third"}, names(cs))
	})

	t.Run("unknown distances go last", func(t *testing.T) {
		cs := []candidate{
			{"unknown1", 0, false},
			{"far", 10, true},
			{"unknown2", 0, false},
			{"near", 0.5, true},
		}
		SortByDistance(cs, candidateDistance)
		assert.Equal(t, []string{"near", "far", "unknown1", "unknown2"}, names(cs))
	})

	t.Run("empty", func(t *testing.T) {
		var cs []candidate
		SortByDistance(cs, candidateDistance)
		assert.Empty(t, cs)
	})
}
