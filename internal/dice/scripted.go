package dice

import "fmt"

// ScriptedSource replays a fixed sequence of values. Each call to Intn
// consumes the next value; it is used to reproduce exact battle sequences.
type ScriptedSource struct {
	values []int
	pos    int
}

// NewScriptedSource returns a source that yields values in order.
func NewScriptedSource(values ...int) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// Intn returns the next scripted value. Panics if the script is exhausted
// or the value falls outside [0, n).
func (s *ScriptedSource) Intn(n int) int {
	if s.pos >= len(s.values) {
		panic(fmt.Sprintf("dice: scripted source exhausted after %d rolls", s.pos))
	}
	v := s.values[s.pos]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("dice: scripted value %d out of range [0, %d)", v, n))
	}
	s.pos++
	return v
}

// Remaining returns the number of values not yet consumed.
func (s *ScriptedSource) Remaining() int {
	return len(s.values) - s.pos
}
