package backend

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxLayers bounds how many compression layers Sniff unwraps.
const maxLayers = 2

// compression is a stream wrapper recognized ahead of the image header.
type compression struct {
	name  string
	magic []byte
	open  func(io.Reader) (io.Reader, func(), error)
}

var compressions = []compression{
	{name: "gzip", magic: []byte{0x1f, 0x8b}, open: openGzip},
	{name: "zstd", magic: []byte{0x28, 0xb5, 0x2f, 0xfd}, open: openZstd},
}

func openGzip(r io.Reader) (io.Reader, func(), error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return gz, func() { _ = gz.Close() }, nil
}

func openZstd(r io.Reader) (io.Reader, func(), error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, nil, err
	}
	return dec, dec.Close, nil
}

func compressionOf(header []byte) *compression {
	for i := range compressions {
		if bytes.HasPrefix(header, compressions[i].magic) {
			return &compressions[i]
		}
	}
	return nil
}

// stream is the reader handed back by Sniff. It owns the decompressors
// opened while unwrapping.
type stream struct {
	io.Reader
	closers []func()
}

// push opens c over r and makes the decompressed data the stream.
func (s *stream) push(c *compression, r io.Reader) (*bufio.Reader, error) {
	dr, closer, err := c.open(r)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", c.name, err)
	}
	s.closers = append(s.closers, closer)
	br := bufio.NewReader(dr)
	s.Reader = br
	return br, nil
}

// Close releases decompressors, innermost first. It never fails.
func (s *stream) Close() error {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
	return nil
}
