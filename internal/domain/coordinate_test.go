package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate_Valid(t *testing.T) {
	assert.True(t, Coordinate{Lon: 180, Lat: -90}.Valid())
	assert.False(t, Coordinate{Lon: 180.1, Lat: 0}.Valid())
	assert.False(t, Coordinate{Lon: 0, Lat: 91}.Valid())
	assert.False(t, Coordinate{Lon: math.NaN(), Lat: 0}.Valid())
	assert.False(t, Coordinate{Lon: 0, Lat: math.Inf(1)}.Valid())
}

func TestCoordinate_JSON(t *testing.T) {
	data, err := json.Marshal(Coordinate{Lon: 136.6, Lat: 36.5})
	require.NoError(t, err)
	assert.JSONEq(t, `[136.6, 36.5]`, string(data))

	var c Coordinate
	require.NoError(t, json.Unmarshal([]byte(`[139.7, 35.7]`), &c))
	assert.Equal(t, Coordinate{Lon: 139.7, Lat: 35.7}, c)
}

func TestCoordinate_UnmarshalRejectsBadPairs(t *testing.T) {
	for _, input := range []string{`[1]`, `[1,2,3]`, `"1,2"`, `{"lon":1,"lat":2}`, `["a","b"]`, `[200, 0]`} {
		var c Coordinate
		err := json.Unmarshal([]byte(input), &c)
		require.Error(t, err, input)
		assert.ErrorIs(t, err, ErrMalformedPayload, input)
	}
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile("")
	require.NoError(t, err)
	assert.Equal(t, ProfileDriving, p)

	p, err = ParseProfile("walking")
	require.NoError(t, err)
	assert.Equal(t, ProfileWalking, p)

	_, err = ParseProfile("cycling")
	require.Error(t, err)
}

func TestStaticPosition(t *testing.T) {
	var unset *StaticPosition
	_, err := unset.CurrentPosition(t.Context())
	require.ErrorIs(t, err, ErrSensorUnavailable)

	p := &StaticPosition{Coordinate: tokyo}
	got, err := p.CurrentPosition(t.Context())
	require.NoError(t, err)
	assert.Equal(t, tokyo, got)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(ErrSensorUnavailable), "location")
	assert.Contains(t, UserMessage(ErrNoShelters), "No shelters")
	assert.Contains(t, UserMessage(ErrEmptyResult), "straight line")
	assert.NotContains(t, UserMessage(assert.AnError), assert.AnError.Error())
}
