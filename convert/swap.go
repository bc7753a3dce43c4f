package convert

import (
	"encoding/binary"
	"math/bits"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/pixel"
)

// swapRow reverses the byte order of every size-byte sample in row.
// Samples of one byte are left alone.
func swapRow(row []byte, size int) {
	switch size {
	case 2:
		for i := 0; i+1 < len(row); i += 2 {
			row[i], row[i+1] = row[i+1], row[i]
		}
	case 4:
		for i := 0; i+3 < len(row); i += 4 {
			v := binary.LittleEndian.Uint32(row[i:])
			binary.LittleEndian.PutUint32(row[i:], bits.ReverseBytes32(v))
		}
	}
}

// SwapEndian changes the byte order of b's samples in place and records the
// new order. It is a no-op when b is already in the requested order. For
// one-byte components only the recorded order changes.
func SwapEndian(b *buffer.Buffer, e pixel.Endian) {
	if b.Endian() == e {
		return
	}
	if size := b.Format().Component.Size(); size > 1 {
		for y := range b.Height() {
			swapRow(b.Row(y), size)
		}
	}
	b.SetEndian(e)
}
