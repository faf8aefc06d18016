package compose

import (
	"github.com/viterin/vek/vek32"

	"github.com/viant/lexvec/feature"
)

// DefaultIncrement is the entity-ness added to each neighbour of an action.
const DefaultIncrement = 0.1

// Rule configures Disambiguate.
type Rule struct {
	// Action is the coordinate whose positive value triggers the rule.
	Action int
	// Entity is the coordinate raised on the trigger's neighbours.
	Entity int
	// Increment is added per neighbouring trigger.
	Increment float32
}

// DefaultRule returns the rule for the canonical feature table.
func DefaultRule() Rule {
	return RuleFor(feature.Default())
}

// RuleFor returns the rule for t's action and entity features with the
// default increment. Missing features disable the rule.
func RuleFor(t *feature.Table) Rule {
	r := Rule{Action: -1, Entity: -1, Increment: DefaultIncrement}
	if i, ok := t.Index(feature.Action); ok {
		r.Action = i
	}
	if i, ok := t.Index(feature.Entity); ok {
		r.Entity = i
	}
	return r
}

// Disambiguate nudges the neighbours of action-bearing lexemes towards
// entity-ness. Every position whose action coordinate in seq is positive
// adds rule.Increment to the entity coordinate of its predecessor and
// successor. Triggers are read from seq, never from adjusted output, so
// the pass is order independent. All coordinates of the result are clamped
// to [0,1]. seq is not modified.
func Disambiguate(seq [][]float32, rule Rule) [][]float32 {
	out := make([][]float32, len(seq))
	for i, v := range seq {
		out[i] = append([]float32(nil), v...)
	}
	if rule.Action >= 0 && rule.Entity >= 0 {
		for i, v := range seq {
			if rule.Action >= len(v) || v[rule.Action] <= 0 {
				continue
			}
			for _, j := range []int{i - 1, i + 1} {
				if j < 0 || j >= len(out) || rule.Entity >= len(out[j]) {
					continue
				}
				out[j][rule.Entity] += rule.Increment
			}
		}
	}
	for _, v := range out {
		clamp01(v)
	}
	return out
}

func clamp01(v []float32) {
	if len(v) == 0 {
		return
	}
	vek32.MaximumNumber_Inplace(v, 0)
	vek32.MinimumNumber_Inplace(v, 1)
}
