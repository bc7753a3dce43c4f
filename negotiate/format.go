// Package negotiate decides which conversions a decoded frame needs and
// runs them.
//
// An OutputFormat bundles one preference per frame property. A Require
// preference must hold once a frame is handed over; a Prefer preference is
// honored only when the caller enforces the output format, typically after
// the decode backend has settled on what it produces natively.
package negotiate

import (
	"github.com/gogpu/pixio/frame"
	"github.com/gogpu/pixio/orient"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/pref"
)

// Common gamma values.
const (
	DefaultGamma = 2.2
	LinearGamma  = 1.0
)

// OutputFormat is the set of properties a caller wants decoded frames to
// have. The zero value accepts anything.
//
// ExpandGray and FillAlpha only ever add channels: a false value asks for
// nothing and is met by every layout.
type OutputFormat struct {
	Component   pref.Preference[pixel.ComponentType]
	ExpandGray  pref.Preference[bool]
	FillAlpha   pref.Preference[bool]
	Endian      pref.Preference[pixel.Endian]
	Alpha       pref.Preference[pixel.AlphaMode]
	Gamma       pref.Preference[float64]
	Orientation pref.Preference[orient.Isometry]
	Target      pref.Preference[frame.Target]
}

// Standard returns the usual display preset: upright straight-alpha
// rgba/u8 with gamma 2.2 in host order, held in a buffer. Every field is
// Prefer, so nothing is converted unless enforced.
func Standard(host pixel.Endian) OutputFormat {
	return OutputFormat{
		Component:   pref.Prefer(pixel.U8),
		ExpandGray:  pref.Prefer(true),
		FillAlpha:   pref.Prefer(true),
		Endian:      pref.Prefer(host),
		Alpha:       pref.Prefer(pixel.Straight),
		Gamma:       pref.Prefer(DefaultGamma),
		Orientation: pref.Prefer(orient.Identity),
		Target:      pref.Prefer(frame.TargetBuffer),
	}
}

// Enforce returns a copy of of with every Prefer promoted to Require.
func (of OutputFormat) Enforce() OutputFormat {
	of.Component = of.Component.Enforced()
	of.ExpandGray = of.ExpandGray.Enforced()
	of.FillAlpha = of.FillAlpha.Enforced()
	of.Endian = of.Endian.Enforced()
	of.Alpha = of.Alpha.Enforced()
	of.Gamma = of.Gamma.Enforced()
	of.Orientation = of.Orientation.Enforced()
	of.Target = of.Target.Enforced()
	return of
}

// check selects between the strict and lenient predicate of a preference.
type check uint8

const (
	strict check = iota
	lenient
)

func satisfied[T comparable](p pref.Preference[T], v T, c check) bool {
	if c == strict {
		return p.SatisfiedBy(v)
	}
	return p.PreferenceSatisfiedBy(v)
}

// flag checks a channel-adding preference: false asks for nothing.
func flag(p pref.Preference[bool], has bool, c check) bool {
	return !p.Value || satisfied(p, has, c)
}

func (of OutputFormat) format(f pixel.Format, c check) bool {
	return satisfied(of.Component, f.Component, c) &&
		flag(of.ExpandGray, f.Layout.HasColor(), c) &&
		flag(of.FillAlpha, f.Layout.HasAlpha(), c)
}

func (of OutputFormat) frame(f *frame.Frame, c check) bool {
	if !of.format(f.Format(), c) ||
		!satisfied(of.Endian, f.Endian(), c) ||
		!satisfied(of.Gamma, f.Gamma, c) ||
		!satisfied(of.Orientation, f.Orientation, c) ||
		!satisfied(of.Target, f.Target(), c) {
		return false
	}
	// Alpha mode is meaningless without an alpha channel.
	return !f.Format().Layout.HasAlpha() || satisfied(of.Alpha, f.AlphaMode, c)
}

// FormatSatisfiedBy reports whether a frame in pixel format f meets every
// Require preference on component type and channels.
func (of OutputFormat) FormatSatisfiedBy(f pixel.Format) bool {
	return of.format(f, strict)
}

// FormatPreferenceSatisfiedBy reports whether f also matches every Prefer
// preference on component type and channels.
func (of OutputFormat) FormatPreferenceSatisfiedBy(f pixel.Format) bool {
	return of.format(f, lenient)
}

// SatisfiedBy reports whether f meets every Require preference.
func (of OutputFormat) SatisfiedBy(f *frame.Frame) bool {
	return of.frame(f, strict)
}

// PreferenceSatisfiedBy reports whether f matches every preference that is
// not Whatever. When it holds no conversion would change anything.
func (of OutputFormat) PreferenceSatisfiedBy(f *frame.Frame) bool {
	return of.frame(f, lenient)
}

// ImageSatisfiedBy reports whether every frame of img satisfies of.
func (of OutputFormat) ImageSatisfiedBy(img *frame.Image) bool {
	for _, f := range img.Frames {
		if !of.SatisfiedBy(f) {
			return false
		}
	}
	return true
}

// ImagePreferenceSatisfiedBy reports whether every frame of img matches
// every preference of of.
func (of OutputFormat) ImagePreferenceSatisfiedBy(img *frame.Image) bool {
	for _, f := range img.Frames {
		if !of.PreferenceSatisfiedBy(f) {
			return false
		}
	}
	return true
}

// TargetFormat returns the pixel format a frame currently in format cur has
// to be converted to. Only active preferences count; channels are added,
// never removed.
func (of OutputFormat) TargetFormat(cur pixel.Format, enforce bool) pixel.Format {
	f := cur
	if of.Component.Active(enforce) {
		f.Component = of.Component.Value
	}
	if of.ExpandGray.Active(enforce) && of.ExpandGray.Value {
		f.Layout = f.Layout.AddColor()
	}
	if of.FillAlpha.Active(enforce) && of.FillAlpha.Value {
		f.Layout = f.Layout.AddAlpha()
	}
	return f
}
