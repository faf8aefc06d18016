// Package feature maps lexical categories to fixed-dimension template
// vectors.
//
// A Table names its features (one per coordinate) and holds, for every
// category, a default vector plus optional per-particle vectors:
//
//	v, exact := feature.Default().Encode(lexeme.Noun, lexeme.ParticleBoson)
//
// Tables are immutable; Encode always returns a fresh slice. Custom tables
// are loaded from YAML with LoadYAML and validated for exhaustiveness.
package feature
