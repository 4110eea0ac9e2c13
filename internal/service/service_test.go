package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/nhs-mcp/internal/geo"
	"github.com/dshills/nhs-mcp/pkg/types"
)

// fakeBackend records calls and returns canned data
type fakeBackend struct {
	configured bool
	postcodes  map[string]*types.PostcodeResult
	orgs       []types.Organisation
	topics     map[string]*types.HealthTopic
	err        error

	searchType   string
	searchOrigin geo.Coordinate
	searchTop    int
	topicSlug    string
}

func (f *fakeBackend) Configured() bool { return f.configured }

func (f *fakeBackend) GeocodePostcode(_ context.Context, postcode string) (*types.PostcodeResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.postcodes[postcode], nil
}

func (f *fakeBackend) SearchOrganisations(_ context.Context, typeCode string, origin geo.Coordinate, top int) ([]types.Organisation, error) {
	f.searchType = typeCode
	f.searchOrigin = origin
	f.searchTop = top
	if f.err != nil {
		return nil, f.err
	}
	out := make([]types.Organisation, len(f.orgs))
	copy(out, f.orgs)
	return out, nil
}

func (f *fakeBackend) GetHealthTopic(_ context.Context, topic string) (*types.HealthTopic, error) {
	f.topicSlug = topic
	if f.err != nil {
		return nil, f.err
	}
	return f.topics[topic], nil
}

func coord(lat, lon float64) *geo.Coordinate {
	return &geo.Coordinate{Latitude: lat, Longitude: lon}
}

func newFake() *fakeBackend {
	return &fakeBackend{
		configured: true,
		postcodes: map[string]*types.PostcodeResult{
			"M1 1AE": {Postcode: "M1 1AE", Latitude: 53.4808, Longitude: -2.2426},
		},
		orgs: []types.Organisation{
			{Name: "Far", TypeCode: "PHA", Coordinate: coord(53.0, -2.0)},
			{Name: "NoCoord", TypeCode: "PHA"},
			{Name: "Near", TypeCode: "PHA", Coordinate: coord(53.4810, -2.2420)},
			{Name: "Mid", TypeCode: "PHA", Coordinate: coord(53.4, -2.2)},
		},
		topics: map[string]*types.HealthTopic{
			"asthma": {Name: "Asthma"},
		},
	}
}

func orgNames(orgs []types.Organisation) []string {
	out := make([]string, len(orgs))
	for i, o := range orgs {
		out[i] = o.Name
	}
	return out
}

func TestService_OrganisationTypes(t *testing.T) {
	svc := New(newFake(), nil)
	all := svc.OrganisationTypes()
	assert.Len(t, all, 23)
}

func TestService_Geocode(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		svc := New(newFake(), nil)
		result, err := svc.Geocode(ctx, "M1 1AE")
		require.NoError(t, err)
		assert.Equal(t, 53.4808, result.Latitude)
	})

	t.Run("blank postcode", func(t *testing.T) {
		svc := New(newFake(), nil)
		_, err := svc.Geocode(ctx, "  ")
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc := New(newFake(), nil)
		_, err := svc.Geocode(ctx, "ZZ9 9ZZ")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.EqualError(t, err, "Postcode 'ZZ9 9ZZ' not found")
	})

	t.Run("backend not configured", func(t *testing.T) {
		fake := newFake()
		fake.configured = false
		_, err := New(fake, nil).Geocode(ctx, "M1 1AE")
		assert.ErrorIs(t, err, types.ErrBackendNotConfigured)
	})

	t.Run("backend error wrapped", func(t *testing.T) {
		fake := newFake()
		fake.err = errors.New("connection refused")
		_, err := New(fake, nil).Geocode(ctx, "M1 1AE")
		require.Error(t, err)
		assert.ErrorIs(t, err, fake.err)
		assert.NotErrorIs(t, err, types.ErrInvalidInput)
	})
}

func TestService_SearchByPoint(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks nearest first with unknown distances last", func(t *testing.T) {
		fake := newFake()
		svc := New(fake, nil)
		result, err := svc.SearchByPoint(ctx, SearchByPointRequest{
			OrganisationType: "pha",
			Latitude:         53.4808,
			Longitude:        -2.2426,
		})
		require.NoError(t, err)

		assert.Equal(t, "PHA", fake.searchType)
		assert.Equal(t, DefaultMaxResults, fake.searchTop)
		assert.Equal(t, geo.Coordinate{Latitude: 53.4808, Longitude: -2.2426}, fake.searchOrigin)

		assert.Equal(t, "PHA", result.OrganisationType)
		assert.Equal(t, "Pharmacy", result.OrganisationTypeDescription)
		assert.Equal(t, 4, result.ResultCount)
		assert.Empty(t, result.Postcode)
		assert.Equal(t, []string{"Near", "Mid", "Far", "NoCoord"}, orgNames(result.Organisations))

		require.NotNil(t, result.Organisations[0].Distance)
		assert.Less(t, *result.Organisations[0].Distance, 0.1)
		assert.Nil(t, result.Organisations[3].Distance)
	})

	t.Run("equal distances keep backend order", func(t *testing.T) {
		fake := newFake()
		fake.orgs = []types.Organisation{
			{Name: "B", TypeCode: "GPB", Coordinate: coord(1, 1)},
			{Name: "A", TypeCode: "GPB", Coordinate: coord(1, 1)},
			{Name: "C", TypeCode: "GPB", Coordinate: coord(1, 1)},
		}
		result, err := New(fake, nil).SearchByPoint(ctx, SearchByPointRequest{OrganisationType: "GPB", MaxResults: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "A", "C"}, orgNames(result.Organisations))
	})

	t.Run("skips records without name or type", func(t *testing.T) {
		fake := newFake()
		fake.orgs = []types.Organisation{
			{TypeCode: "PHA", ODSCode: "FX001", Coordinate: coord(53.4808, -2.2426)},
			{Name: "Kept", TypeCode: "PHA", Coordinate: coord(53.5, -2.2)},
			{Name: "Untyped", Coordinate: coord(53.4808, -2.2426)},
		}
		result, err := New(fake, nil).SearchByPoint(ctx, SearchByPointRequest{
			OrganisationType: "PHA", Latitude: 53.4808, Longitude: -2.2426,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Kept"}, orgNames(result.Organisations))
		assert.Equal(t, 1, result.ResultCount)
	})

	t.Run("truncates to maxResults", func(t *testing.T) {
		fake := newFake()
		result, err := New(fake, nil).SearchByPoint(ctx, SearchByPointRequest{
			OrganisationType: "PHA", Latitude: 53.4808, Longitude: -2.2426, MaxResults: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, fake.searchTop)
		assert.Equal(t, []string{"Near", "Mid"}, orgNames(result.Organisations))
		assert.Equal(t, 2, result.ResultCount)
	})

	tests := []struct {
		name  string
		req   SearchByPointRequest
		param string
	}{
		{"missing type", SearchByPointRequest{Latitude: 1, Longitude: 1}, "organisationType"},
		{"unknown type", SearchByPointRequest{OrganisationType: "XYZ"}, "organisationType"},
		{"latitude out of range", SearchByPointRequest{OrganisationType: "PHA", Latitude: 91}, "latitude"},
		{"longitude out of range", SearchByPointRequest{OrganisationType: "PHA", Longitude: -181}, "longitude"},
		{"maxResults too high", SearchByPointRequest{OrganisationType: "PHA", MaxResults: 51}, "maxResults"},
		{"maxResults negative", SearchByPointRequest{OrganisationType: "PHA", MaxResults: -1}, "maxResults"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFake()
			_, err := New(fake, nil).SearchByPoint(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidInput)

			var ve *types.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.param, ve.Param)
			assert.Empty(t, fake.searchType, "backend must not be called")
		})
	}

	t.Run("invalid type message", func(t *testing.T) {
		_, err := New(newFake(), nil).SearchByPoint(ctx, SearchByPointRequest{OrganisationType: "xyz"})
		assert.EqualError(t, err, "Invalid organisation type 'xyz'. Use get_organisation_types to see valid types.")
	})
}

func TestService_SearchByPostcode(t *testing.T) {
	ctx := context.Background()

	t.Run("geocodes then searches", func(t *testing.T) {
		fake := newFake()
		result, err := New(fake, nil).SearchByPostcode(ctx, SearchByPostcodeRequest{
			OrganisationType: "PHA",
			Postcode:         "M1 1AE",
			MaxResults:       50,
		})
		require.NoError(t, err)
		assert.Equal(t, "M1 1AE", result.Postcode)
		assert.Equal(t, 53.4808, result.Coordinates.Latitude)
		assert.Equal(t, 50, fake.searchTop)
		assert.Equal(t, "Near", result.Organisations[0].Name)
	})

	t.Run("unknown postcode", func(t *testing.T) {
		fake := newFake()
		_, err := New(fake, nil).SearchByPostcode(ctx, SearchByPostcodeRequest{OrganisationType: "PHA", Postcode: "ZZ9 9ZZ"})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Empty(t, fake.searchType)
	})

	t.Run("blank postcode", func(t *testing.T) {
		_, err := New(newFake(), nil).SearchByPostcode(ctx, SearchByPostcodeRequest{OrganisationType: "PHA"})
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("type checked before postcode", func(t *testing.T) {
		_, err := New(newFake(), nil).SearchByPostcode(ctx, SearchByPostcodeRequest{OrganisationType: "BAD", Postcode: "M1 1AE"})
		var ve *types.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "organisationType", ve.Param)
	})
}

func TestService_HealthTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("normalises slug", func(t *testing.T) {
		fake := newFake()
		topic, err := New(fake, nil).HealthTopic(ctx, "  ASTHMA ")
		require.NoError(t, err)
		assert.Equal(t, "Asthma", topic.Name)
		assert.Equal(t, "asthma", fake.topicSlug)
	})

	t.Run("blank topic", func(t *testing.T) {
		_, err := New(newFake(), nil).HealthTopic(ctx, " ")
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := New(newFake(), nil).HealthTopic(ctx, "made-up")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Contains(t, err.Error(), "Health topic 'made-up' not found")
	})
}

func TestService_Ready(t *testing.T) {
	assert.True(t, New(newFake(), nil).Ready())
	assert.False(t, New(nil, nil).Ready())

	fake := newFake()
	fake.configured = false
	assert.False(t, New(fake, nil).Ready())
}
