package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/lexvec/lexeme"
)

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name       string
		rec        Record
		validation bool
		dimension  bool
	}{
		{"Valid", Record{Key: "cattle", Category: lexeme.Noun, Vector: make([]float32, 3)}, false, false},
		{"EmptyKey", Record{Category: lexeme.Noun, Vector: make([]float32, 3)}, true, false},
		{"BlankKey", Record{Key: "  ", Category: lexeme.Noun, Vector: make([]float32, 3)}, true, false},
		{"MissingCategory", Record{Key: "x", Vector: make([]float32, 3)}, true, false},
		{"UnknownCategory", Record{Key: "x", Category: lexeme.Category(99), Vector: make([]float32, 3)}, true, false},
		{"WrongDimension", Record{Key: "x", Category: lexeme.Verb, Vector: make([]float32, 2)}, false, true},
		{"NaNCoordinate", Record{Key: "x", Category: lexeme.Verb, Vector: []float32{0, float32(math.NaN()), 0}}, true, false},
		{"InfCoordinate", Record{Key: "x", Category: lexeme.Verb, Vector: []float32{float32(math.Inf(1)), 0, 0}}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate(3)
			assert.Equal(t, tt.validation, IsValidation(err), "validation: %v", err)
			assert.Equal(t, tt.dimension, IsDimensionMismatch(err), "dimension: %v", err)
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	orig := Record{Key: "a", Category: lexeme.Noun, Vector: []float32{1, 2}}
	c := orig.Clone()
	c.Vector[0] = 9
	assert.Equal(t, float32(1), orig.Vector[0])
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Key: "x", Field: "category", Reason: "is missing or unknown"}
	assert.Equal(t, `vector: invalid record "x": category is missing or unknown`, err.Error())
	err = &ValidationError{Field: "key", Reason: "is empty"}
	assert.Equal(t, "vector: invalid record: key is empty", err.Error())
}
