package convert

import (
	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/orient"
)

// Orientation applies iso to the pixels of b.
//
// Identity, FlipX, FlipY and RotateHalf keep the dimensions and are applied
// in place; b itself is returned. The transposing isometries swap width and
// height, so they produce a new buffer built from a transpose followed by one
// in-place axis flip. The byte order of samples is irrelevant here: pixels
// are moved as opaque byte groups.
func Orientation(b *buffer.Buffer, iso orient.Isometry, opts ...Option) (*buffer.Buffer, error) {
	if !iso.Transposes() {
		applySimple(b, iso)
		return b, nil
	}

	o := resolve(opts)
	t, err := transpose(b, &o)
	if err != nil {
		return nil, err
	}
	// iso = rest ∘ transpose, and transpose is its own inverse.
	applySimple(t, orient.Mul(iso, orient.Transpose))
	return t, nil
}

// applySimple applies one of the four isometries that keep the dimensions.
func applySimple(b *buffer.Buffer, iso orient.Isometry) {
	switch iso {
	case orient.FlipX:
		flipX(b)
	case orient.FlipY:
		flipY(b)
	case orient.RotateHalf:
		flipY(b)
		flipX(b)
	}
}

// flipX mirrors every row by swapping pixel-sized chunks.
func flipX(b *buffer.Buffer) {
	size := b.Format().Size()
	w := b.Width()
	tmp := make([]byte, size)
	for y := range b.Height() {
		row := b.Row(y)
		for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
			lp := row[l*size : l*size+size]
			rp := row[r*size : r*size+size]
			copy(tmp, lp)
			copy(lp, rp)
			copy(rp, tmp)
		}
	}
}

// flipY swaps row pairs from the outside in.
func flipY(b *buffer.Buffer) {
	h := b.Height()
	tmp := make([]byte, b.Format().RowBytes(b.Width()))
	for top, bottom := 0, h-1; top < bottom; top, bottom = top+1, bottom-1 {
		t, u := b.Row(top), b.Row(bottom)
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// transpose returns a new buffer with dst(y, x) = src(x, y).
func transpose(b *buffer.Buffer, o *options) (*buffer.Buffer, error) {
	align := o.alignment
	if align == 0 {
		align = b.Alignment()
	}
	dst, err := buffer.New(b.Height(), b.Width(), b.Format(), b.Endian(), buffer.WithAlignment(align))
	if err != nil {
		return nil, err
	}

	size := b.Format().Size()
	srcH := b.Height()
	o.rows(dst.Width(), dst.Height(), func(y0, y1 int) {
		for dy := y0; dy < y1; dy++ {
			drow := dst.Row(dy)
			for dx := range srcH {
				srow := b.Row(dx)
				copy(drow[dx*size:dx*size+size], srow[dy*size:dy*size+size])
			}
		}
	})
	return dst, nil
}
