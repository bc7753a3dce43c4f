// Package orient implements the eight symmetries of a square, used to
// describe how stored pixels relate to the upright image.
//
// An Isometry is encoded as (quarter turns clockwise, reflect). As a
// transformation of an image it means: mirror horizontally if reflect is set,
// then rotate clockwise by the given number of quarter turns.
package orient

import "fmt"

// Isometry is one element of the dihedral group of order 8.
// Bits 0-1 hold the clockwise quarter turns, bit 2 the reflection flag.
type Isometry uint8

const reflectBit = 4

// The eight isometries of the square.
const (
	Identity      Isometry = 0
	RotateCW      Isometry = 1
	RotateHalf    Isometry = 2
	RotateCCW     Isometry = 3
	FlipX         Isometry = reflectBit | 0 // mirror horizontally: (x, y) -> (w-1-x, y)
	AntiTranspose Isometry = reflectBit | 1 // (x, y) -> (h-1-y, w-1-x)
	FlipY         Isometry = reflectBit | 2 // mirror vertically: (x, y) -> (x, h-1-y)
	Transpose     Isometry = reflectBit | 3 // (x, y) -> (y, x)
)

// All returns the eight isometries in encoding order.
func All() []Isometry {
	return []Isometry{Identity, RotateCW, RotateHalf, RotateCCW, FlipX, AntiTranspose, FlipY, Transpose}
}

// New builds an isometry from clockwise quarter turns (taken modulo 4) and a
// reflection flag.
func New(turns int, reflect bool) Isometry {
	i := Isometry(((turns % 4) + 4) % 4)
	if reflect {
		i |= reflectBit
	}
	return i
}

// Valid returns true for the eight defined values.
func (i Isometry) Valid() bool {
	return i < 8
}

// Turns returns the number of clockwise quarter turns, 0-3.
func (i Isometry) Turns() int {
	return int(i & 3)
}

// Reflects returns true for the four mirroring isometries.
func (i Isometry) Reflects() bool {
	return i&reflectBit != 0
}

// Transposes returns true if applying i swaps width and height.
func (i Isometry) Transposes() bool {
	return i.Turns()%2 == 1
}

// Mul returns the composition a∘b: the isometry that applies b first,
// then a.
func Mul(a, b Isometry) Isometry {
	turns := b.Turns()
	if a.Reflects() {
		// A mirror conjugates a rotation into its inverse.
		turns = -turns
	}
	return New(a.Turns()+turns, a.Reflects() != b.Reflects())
}

// Then returns the isometry that applies i first, then next.
func (i Isometry) Then(next Isometry) Isometry {
	return Mul(next, i)
}

// Inverse returns the isometry that undoes i.
func (i Isometry) Inverse() Isometry {
	if i.Reflects() {
		return i
	}
	return New(-i.Turns(), false)
}

// Correction returns the single isometry that turns a buffer whose pixels
// need from to display upright into one that needs to.
func Correction(from, to Isometry) Isometry {
	return Mul(to.Inverse(), from)
}

// Map returns where the pixel at (x, y) of a w×h image lands after
// applying i.
func (i Isometry) Map(x, y, w, h int) (int, int) {
	if i.Reflects() {
		x = w - 1 - x
	}
	for range i.Turns() {
		x, y = h-1-y, x
		w, h = h, w
	}
	return x, y
}

// String returns the isometry name.
func (i Isometry) String() string {
	switch i {
	case Identity:
		return "identity"
	case RotateCW:
		return "rotate-cw"
	case RotateHalf:
		return "rotate-half"
	case RotateCCW:
		return "rotate-ccw"
	case FlipX:
		return "flip-x"
	case AntiTranspose:
		return "anti-transpose"
	case FlipY:
		return "flip-y"
	case Transpose:
		return "transpose"
	default:
		return fmt.Sprintf("Isometry(%d)", uint8(i))
	}
}

// exifTable maps EXIF/TIFF orientation tags 1-8 to the isometry that must be
// applied to the stored pixels to display them upright.
var exifTable = [9]Isometry{
	1: Identity,
	2: FlipX,
	3: RotateHalf,
	4: FlipY,
	5: Transpose,
	6: RotateCW,
	7: AntiTranspose,
	8: RotateCCW,
}

// FromEXIF converts an EXIF orientation tag. Unknown tags map to Identity
// with ok set to false.
func FromEXIF(tag int) (Isometry, bool) {
	if tag < 1 || tag > 8 {
		return Identity, false
	}
	return exifTable[tag], true
}

// EXIF returns the EXIF orientation tag for i.
func (i Isometry) EXIF() int {
	for tag := 1; tag <= 8; tag++ {
		if exifTable[tag] == i {
			return tag
		}
	}
	return 0
}
