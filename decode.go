package pixio

import (
	"context"
	"fmt"
	"io"

	"github.com/gogpu/pixio/backend"
	"github.com/gogpu/pixio/decode"
	"github.com/gogpu/pixio/frame"
	"github.com/gogpu/pixio/negotiate"
	"github.com/gogpu/pixio/progress"
)

// ErrUnknownFormat is returned when no registered backend recognizes the
// stream.
var ErrUnknownFormat = backend.ErrUnknownFormat

// Token watches and controls a decode from another goroutine.
type Token = progress.Token[*frame.Frame]

// NewToken returns a token for DecodeWithToken.
func NewToken() *Token {
	return progress.NewToken[*frame.Frame]()
}

// RegisterBackend adds a decode backend. A backend with the same name is
// replaced.
func RegisterBackend(b decode.Backend) {
	backend.Register(b)
}

// Backends returns the names of the registered backends in sniffing order.
func Backends() []string {
	return backend.Available()
}

// Decode reads an image from r and returns its frames in the output format
// of. Cancelling ctx stops the decode; the frames finished so far are
// returned in an incomplete image with a nil error.
func Decode(ctx context.Context, r io.Reader, of negotiate.OutputFormat, opts ...Option) (*frame.Image, error) {
	return DecodeWithToken(ctx, r, of, NewToken(), opts...)
}

// DecodeWithToken is like Decode but reports through tok, which the caller
// may watch and stop from another goroutine. tok may be reused once the
// previous decode has returned; see Token.Reset.
func DecodeWithToken(ctx context.Context, r io.Reader, of negotiate.OutputFormat, tok *Token, opts ...Option) (*frame.Image, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		b   decode.Backend
		err error
	)
	if o.backend != "" {
		b, err = backend.Lookup(o.backend)
	} else {
		var rc io.ReadCloser
		b, rc, err = backend.Sniff(r)
		defer rc.Close()
		r = rc
	}
	if err != nil {
		return nil, fmt.Errorf("pixio: %w", err)
	}

	// AfterFunc stops asynchronously; a context that is already done must
	// stop the token before the first frame.
	if ctx.Err() != nil {
		tok.Stop()
	}
	stop := context.AfterFunc(ctx, tok.Stop)
	defer stop()

	s := decode.NewSession(of, tok.Producer(), o.session...)
	Logger().Info("pixio: decoding", "backend", b.Name())
	if err := b.Decode(r, s); err != nil {
		s.Finish()
		return nil, err
	}
	if err := s.Err(); err != nil {
		s.Finish()
		return nil, fmt.Errorf("pixio: %s: %w", b.Name(), err)
	}
	return s.Finish(), nil
}
