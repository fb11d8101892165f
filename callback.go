package risk

// Func is the external pricing (or constraint-evaluator) callback: given a
// read-only coordinate vector and opaque user data, return a finite scalar.
// Implementations must be pure (same inputs, same output, modulo documented
// Monte-Carlo noise), must not retain coords past the call, and must not
// mutate it.
type Func func(coords []float64, user interface{}) (float64, error)
