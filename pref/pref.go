// Package pref provides requested values with a priority level.
//
// A Preference carries a value and a Level. Whatever ignores the value,
// Require must be met exactly, and Prefer is advisory until enforced.
package pref

import "fmt"

// Level is how strongly a value is requested.
type Level uint8

const (
	// LevelWhatever places no constraint; the carried value is ignored.
	LevelWhatever Level = iota

	// LevelPrefer asks for the value but accepts anything else.
	LevelPrefer

	// LevelRequire accepts only the value.
	LevelRequire
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelWhatever:
		return "whatever"
	case LevelPrefer:
		return "prefer"
	case LevelRequire:
		return "require"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// Preference is a value paired with a Level. The zero value is a Whatever
// preference.
type Preference[T comparable] struct {
	Value T
	Level Level
}

// Any returns a preference that accepts every value.
func Any[T comparable]() Preference[T] {
	return Preference[T]{}
}

// Prefer returns an advisory preference for v.
func Prefer[T comparable](v T) Preference[T] {
	return Preference[T]{Value: v, Level: LevelPrefer}
}

// Require returns a mandatory preference for v.
func Require[T comparable](v T) Preference[T] {
	return Preference[T]{Value: v, Level: LevelRequire}
}

// SatisfiedBy is the strict check: only a Require preference with a
// different value fails.
func (p Preference[T]) SatisfiedBy(v T) bool {
	return p.Level != LevelRequire || p.Value == v
}

// PreferenceSatisfiedBy is the lenient check used to decide whether a
// conversion is still wanted: Whatever always passes, otherwise the value
// must match.
func (p Preference[T]) PreferenceSatisfiedBy(v T) bool {
	return p.Level == LevelWhatever || p.Value == v
}

// Enforced returns p with Prefer promoted to Require.
func (p Preference[T]) Enforced() Preference[T] {
	if p.Level == LevelPrefer {
		p.Level = LevelRequire
	}
	return p
}

// Active reports whether the value must be produced: the level is Require,
// or Prefer while enforce is set.
func (p Preference[T]) Active(enforce bool) bool {
	return p.Level == LevelRequire || (p.Level == LevelPrefer && enforce)
}

// Or returns fallback when p is Whatever and p otherwise.
func (p Preference[T]) Or(fallback Preference[T]) Preference[T] {
	if p.Level == LevelWhatever {
		return fallback
	}
	return p
}

// String returns a representation such as "require(rgba)".
func (p Preference[T]) String() string {
	if p.Level == LevelWhatever {
		return "whatever"
	}
	return fmt.Sprintf("%s(%v)", p.Level, p.Value)
}
