package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStancesRoundTrip(t *testing.T) {
	b, err := encodeStances(map[string]string{"q2": "optionB"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"q2":"optionB"}`, string(b))

	got, err := decodeStances(b)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q2": "optionB"}, got)
}

func TestStances_Empty(t *testing.T) {
	b, err := encodeStances(nil)
	require.NoError(t, err)
	assert.Nil(t, b, "empty stances are stored as NULL")

	got, err := decodeStances(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeStances_Invalid(t *testing.T) {
	_, err := decodeStances([]byte(`["not", "a", "map"]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode stances")
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, nilIfEmpty(nil))
	assert.Nil(t, nilIfEmpty([]float64{}))
	assert.Equal(t, []float64{1, 2}, nilIfEmpty([]float64{1, 2}))
}
