package pixel

// Layout is the channel layout of a pixel. The numeric value of a layout is
// its channel count.
type Layout uint8

const (
	// Gray is a single luminance channel.
	Gray Layout = 1

	// GrayAlpha is luminance followed by alpha.
	GrayAlpha Layout = 2

	// RGB is red, green, blue.
	RGB Layout = 3

	// RGBA is red, green, blue, alpha.
	RGBA Layout = 4
)

// Valid returns true if l is one of the four known layouts.
func (l Layout) Valid() bool {
	return l >= Gray && l <= RGBA
}

// Channels returns the number of channels.
func (l Layout) Channels() int {
	if !l.Valid() {
		return 0
	}
	return int(l)
}

// HasAlpha returns true if the layout carries an alpha channel.
func (l Layout) HasAlpha() bool {
	return l == GrayAlpha || l == RGBA
}

// HasColor returns true if the layout carries separate color channels.
func (l Layout) HasColor() bool {
	return l == RGB || l == RGBA
}

// ColorChannels returns the number of non-alpha channels.
func (l Layout) ColorChannels() int {
	if l.HasAlpha() {
		return l.Channels() - 1
	}
	return l.Channels()
}

// AddAlpha returns the layout with an alpha channel appended.
// Layouts that already have alpha are returned unchanged.
func (l Layout) AddAlpha() Layout {
	switch l {
	case Gray:
		return GrayAlpha
	case RGB:
		return RGBA
	default:
		return l
	}
}

// AddColor returns the layout with gray promoted to rgb.
// Layouts that already have color are returned unchanged.
func (l Layout) AddColor() Layout {
	switch l {
	case Gray:
		return RGB
	case GrayAlpha:
		return RGBA
	default:
		return l
	}
}

// Contains reports whether every channel of other can be produced from l
// without dropping information. Gray counts as a subset of rgb, so RGBA
// contains every layout and Gray contains only itself.
func (l Layout) Contains(other Layout) bool {
	if !l.Valid() || !other.Valid() {
		return false
	}
	if other.HasAlpha() && !l.HasAlpha() {
		return false
	}
	if other.HasColor() && !l.HasColor() {
		return false
	}
	return true
}

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case Gray:
		return "gray"
	case GrayAlpha:
		return "gray+alpha"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	default:
		return "unknown"
	}
}
