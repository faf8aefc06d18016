// Package snapshot exports and imports lexeme records as JSON or YAML.
//
// Both encodings use the same record shape:
//
//	{key, category, particle_class, vector, gloss}
//
// Vectors are plain number arrays. Read validates every record (category
// name, key, dimension) before returning any of them.
package snapshot
