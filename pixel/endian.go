package pixel

import (
	"encoding/binary"
	"unsafe"
)

// Endian is the byte order of multi-byte samples in a buffer.
type Endian uint8

const (
	// LittleEndian stores the least significant byte first.
	LittleEndian Endian = iota

	// BigEndian stores the most significant byte first.
	BigEndian
)

// ByteOrder returns the encoding/binary byte order for e.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Swapped returns the opposite byte order.
func (e Endian) Swapped() Endian {
	if e == BigEndian {
		return LittleEndian
	}
	return BigEndian
}

// String returns "le" or "be".
func (e Endian) String() string {
	if e == BigEndian {
		return "be"
	}
	return "le"
}

// HostEndian probes the byte order of the running machine. Conversion code
// never calls it implicitly; callers pass the result down explicitly.
func HostEndian() Endian {
	var x uint16 = 0x0102
	if *(*byte)(unsafe.Pointer(&x)) == 0x01 {
		return BigEndian
	}
	return LittleEndian
}

// AlphaMode describes how color relates to alpha.
type AlphaMode uint8

const (
	// Straight alpha: color channels are independent of alpha.
	Straight AlphaMode = iota

	// Premultiplied alpha: color channels are scaled by alpha.
	Premultiplied
)

// String returns "straight" or "premultiplied".
func (m AlphaMode) String() string {
	if m == Premultiplied {
		return "premultiplied"
	}
	return "straight"
}
