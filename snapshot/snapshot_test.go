package snapshot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/lexvec/lexeme"
	"github.com/viant/lexvec/vector"
)

func sampleRecords() []vector.Record {
	return []vector.Record{
		{Key: "cattle", Category: lexeme.Noun, Particle: lexeme.ParticleBoson, Vector: []float32{1, 0, 0}, Gloss: "cows"},
		{Key: "run", Category: lexeme.Verb, Particle: lexeme.ParticleFermion, Vector: []float32{0, 1, 0}},
		{Key: "très", Category: lexeme.Adverb, Particle: lexeme.ParticleScalarFerm, Vector: []float32{0, 0.2, 1}, Gloss: "very"},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{JSON, YAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, sampleRecords()))

			got, err := Read(&buf, format, 3)
			require.NoError(t, err)
			assert.Equal(t, sampleRecords(), got)
		})
	}
}

func TestRead_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		format Format
		doc    string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown category",
			format: JSON,
			doc:    `[{"key":"x","category":"GERUND","particle_class":"","vector":[1,0,0]}]`,
			check: func(t *testing.T, err error) {
				assert.True(t, vector.IsValidation(err), "%v", err)
			},
		},
		{
			name:   "short vector",
			format: YAML,
			doc:    "- key: x\n  category: NOUN\n  particle_class: Boson\n  vector: [1, 0]\n",
			check: func(t *testing.T, err error) {
				assert.True(t, vector.IsDimensionMismatch(err), "%v", err)
			},
		},
		{
			name:   "non-finite coordinate",
			format: YAML,
			doc:    "- key: x\n  category: NOUN\n  particle_class: Boson\n  vector: [1, .nan, -.inf]\n",
			check: func(t *testing.T, err error) {
				assert.True(t, vector.IsValidation(err), "%v", err)
			},
		},
		{
			name:   "missing key",
			format: JSON,
			doc:    `[{"key":"","category":"NOUN","particle_class":"","vector":[1,0,0]}]`,
			check: func(t *testing.T, err error) {
				assert.True(t, vector.IsValidation(err), "%v", err)
			},
		},
		{
			name:   "unknown field",
			format: JSON,
			doc:    `[{"key":"x","category":"NOUN","embedding":[1,0,0]}]`,
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := Read(strings.NewReader(tc.doc), tc.format, 3)
			assert.Nil(t, recs)
			tc.check(t, err)
		})
	}
}

func TestRead_EmptyYAML(t *testing.T) {
	recs, err := Read(strings.NewReader(""), YAML, 3)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YML ")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}
