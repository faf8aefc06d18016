package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEmbedding_RoundTrip(t *testing.T) {
	orig := []float32{0.0, 1.5, -2.25, 3.75}

	b, err := EncodeEmbedding(orig)
	require.NoError(t, err)
	assert.Len(t, b, 16)

	decoded, err := DecodeEmbedding(b)
	require.NoError(t, err)
	assert.Equal(t, orig, decoded)
}

func TestEncodeDecodeEmbedding_Empty(t *testing.T) {
	b, err := EncodeEmbedding(nil)
	require.NoError(t, err)
	assert.Empty(t, b)

	vec, err := DecodeEmbedding(nil)
	require.NoError(t, err)
	assert.Empty(t, vec)
}

func TestDecodeEmbedding_BadLength(t *testing.T) {
	_, err := DecodeEmbedding([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEncodeDecodeVector_Dimension(t *testing.T) {
	_, err := EncodeVector([]float32{1, 2}, 3)
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)

	b, err := EncodeVector([]float32{1, 2, 3}, 3)
	require.NoError(t, err)

	_, err = DecodeVector(b, 7)
	assert.True(t, IsDimensionMismatch(err))

	vec, err := DecodeVector(b, 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}
