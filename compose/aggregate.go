package compose

import (
	"fmt"
	"strings"

	"github.com/viterin/vek/vek32"

	"github.com/viant/lexvec/vector"
)

// Mode selects how Aggregate combines children.
type Mode uint8

const (
	// SumClamp sums children elementwise and clamps negatives to zero.
	SumClamp Mode = iota
	// WeightedAverage averages children weighted by their Euclidean norms.
	WeightedAverage
)

var modeNames = map[Mode]string{
	SumClamp:        "SUM_CLAMP",
	WeightedAverage: "WEIGHTED_AVERAGE",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses a mode name, case-insensitively. Hyphens are accepted in
// place of underscores.
func ParseMode(name string) (Mode, error) {
	n := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "-", "_")
	for m, s := range modeNames {
		if s == n {
			return m, nil
		}
	}
	return 0, fmt.Errorf("compose: unknown mode %q", name)
}

// Aggregate combines children of length dim into one vector. No children
// yields the zero vector of dim; a child of another length yields a
// *vector.DimensionMismatchError.
func Aggregate(children [][]float32, mode Mode, dim int) ([]float32, error) {
	for _, c := range children {
		if err := vector.CheckDimension(c, dim); err != nil {
			return nil, err
		}
	}
	out := vek32.Zeros(dim)
	if len(children) == 0 {
		return out, nil
	}
	switch mode {
	case SumClamp:
		for _, c := range children {
			vek32.Add_Inplace(out, c)
		}
		vek32.MaximumNumber_Inplace(out, 0)
	case WeightedAverage:
		for i, w := range Weights(children) {
			vek32.Add_Inplace(out, vek32.MulNumber(children[i], w))
		}
	default:
		return nil, fmt.Errorf("compose: unsupported mode %v", mode)
	}
	return out, nil
}

// Weights returns the WeightedAverage weight of each child: its Euclidean
// norm divided by the sum of norms. When every child is zero the weights are
// uniform. The weights of a non-empty input sum to 1.
func Weights(children [][]float32) []float32 {
	if len(children) == 0 {
		return nil
	}
	w := make([]float32, len(children))
	var total float32
	for i, c := range children {
		if len(c) > 0 {
			w[i] = vek32.Norm(c)
		}
		total += w[i]
	}
	if total == 0 {
		for i := range w {
			w[i] = 1 / float32(len(w))
		}
		return w
	}
	vek32.MulNumber_Inplace(w, 1/total)
	return w
}
