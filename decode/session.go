// Package decode coordinates one decode: it sits between a format backend
// that produces pixels and the caller that receives frames.
//
// A backend opens each frame with Session.BeginFrame, writes rows into the
// returned buffer, reports readiness, and closes it with
// Session.FinishFrame. The session converts finished frames to the
// requested output format, passes them to the progress token and collects
// them into a frame.Image returned by Session.Finish.
//
// Cancellation is not an error. Every session method that talks to the
// token reports whether to continue; once it reports false the backend
// should return, and Finish yields the frames decoded so far.
package decode

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/frame"
	"github.com/gogpu/pixio/internal/logging"
	"github.com/gogpu/pixio/negotiate"
	"github.com/gogpu/pixio/orient"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/progress"
	"github.com/gogpu/pixio/texture"
)

// Backend adapts one image format to a Session.
type Backend interface {
	// Name identifies the format, such as "png".
	Name() string

	// Match reports whether header, the first bytes of the input, starts
	// a stream of this format.
	Match(header []byte) bool

	// Decode reads r and delivers its frames through s. Recoverable
	// problems go to s.Warn; fatal ones are returned, preferably as *Error.
	// Decode returns nil early when s reports cancellation.
	Decode(r io.Reader, s *Session) error
}

// Header describes a frame about to be written.
type Header struct {
	Width  int
	Height int

	// Format and Endian describe the samples the backend writes.
	Format pixel.Format
	Endian pixel.Endian

	// Orientation is the isometry that displays the frame upright, as
	// recorded by the source.
	Orientation orient.Isometry

	Alpha pixel.AlphaMode

	// Gamma is the encoding gamma; zero means negotiate.DefaultGamma.
	Gamma float64

	// Duration is the display time of an animation frame.
	Duration time.Duration

	// Texture, when set, holds the frame already; BeginFrame then returns
	// no buffer.
	Texture *texture.Texture
}

type state uint8

const (
	idle state = iota
	frameOpen
	frameClosed
	finished
)

// Session is one decode in progress. It is used by a single goroutine.
type Session struct {
	of       negotiate.OutputFormat
	producer *progress.Producer[*frame.Frame]
	conv     negotiate.Converter
	enforce  bool
	align    int
	log      *slog.Logger

	state    state
	cur      *frame.Frame
	height   int
	index    int
	total    int
	canceled bool
	err      error // protocol violation reported by a call without an error result
	img      frame.Image
}

// NewSession starts a session producing frames in output format of and
// reporting through producer. A nil producer reports to nobody.
func NewSession(of negotiate.OutputFormat, producer *progress.Producer[*frame.Frame], opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if producer == nil {
		producer = progress.Discard[*frame.Frame]()
	}
	log := logging.Or(o.logger)
	return &Session{
		of:       of,
		producer: producer,
		conv: negotiate.Converter{
			Host:    o.host,
			Device:  o.device,
			Reader:  o.reader,
			Options: o.convert,
			Logger:  log,
		},
		enforce: o.enforce,
		align:   o.alignment,
		log:     log,
	}
}

// OutputFormat returns the requested output format. Backends may consult
// it to pick a native format close to what the caller wants.
func (s *Session) OutputFormat() negotiate.OutputFormat {
	return s.of
}

// Host returns the byte order the session computes in.
func (s *Session) Host() pixel.Endian {
	return s.conv.Host
}

// Canceled reports whether the caller asked the decode to stop.
func (s *Session) Canceled() bool {
	return s.canceled
}

// FrameIndex returns the index of the open frame, or of the next one.
func (s *Session) FrameIndex() int {
	return s.index
}

// SetFrameCount records how many frames the source holds, once known.
// Zero means a single frame.
func (s *Session) SetFrameCount(n int) {
	if n < 0 {
		n = 0
	}
	s.total = n
}

// Warn records a non-fatal problem.
func (s *Session) Warn(msg string) {
	s.img.Warnings = append(s.img.Warnings, msg)
	s.log.Warn("decode: warning", "frame", s.index, "msg", msg)
}

// Warnf records a formatted non-fatal problem.
func (s *Session) Warnf(format string, args ...any) {
	s.Warn(fmt.Sprintf(format, args...))
}

// BeginFrame opens the next frame and returns the buffer the backend must
// write it into. The buffer has h's format, byte order and size, and stays
// valid until FinishFrame. It is nil when h.Texture carries the pixels.
//
// proceed is false when the decode was cancelled, in which case no frame
// is opened and the backend should return.
func (s *Session) BeginFrame(h Header) (buf *buffer.Buffer, proceed bool, err error) {
	switch s.state {
	case finished:
		return nil, false, ErrFinished
	case frameOpen:
		return nil, false, fmt.Errorf("%w: frame %d", ErrFrameOpen, s.index)
	}
	if s.err != nil {
		return nil, false, s.err
	}
	if s.canceled {
		return nil, false, nil
	}
	if h.Width <= 0 || h.Height <= 0 || !h.Format.Valid() {
		return nil, false, fmt.Errorf("%w: %dx%d %s", ErrInvalidHeader, h.Width, h.Height, h.Format)
	}

	f := &frame.Frame{
		Orientation: h.Orientation,
		AlphaMode:   h.Alpha,
		Gamma:       h.Gamma,
		Duration:    h.Duration,
		Index:       s.index,
	}
	if f.Gamma <= 0 {
		f.Gamma = negotiate.DefaultGamma
	}
	if h.Texture != nil {
		if h.Texture.Width() != h.Width || h.Texture.Height() != h.Height || h.Texture.Format() != h.Format {
			return nil, false, fmt.Errorf("%w: texture is %dx%d %s", ErrInvalidHeader,
				h.Texture.Width(), h.Texture.Height(), h.Texture.Format())
		}
		f.Storage = h.Texture
	} else {
		buf, err = buffer.New(h.Width, h.Height, h.Format, h.Endian, buffer.WithAlignment(s.align))
		if err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
		f.Storage = buf
	}

	if !s.producer.BeginFrame(s.index) {
		s.cancel()
		return nil, false, nil
	}
	s.log.Debug("decode: begin frame", "frame", s.index, "width", h.Width, "height", h.Height,
		"format", h.Format, "target", f.Target())
	s.cur = f
	s.height = h.Height
	s.state = frameOpen
	return buf, true, nil
}

// MarkReadyUntilLine reports that rows [0, y) of the open frame are written,
// for backends producing rows top-down. It returns whether to continue.
//
// Calling it with no frame open is a protocol violation: it returns false
// and the session fails with ErrNoFrame from then on; see Err.
func (s *Session) MarkReadyUntilLine(y int) bool {
	if s.state != frameOpen {
		return s.violate("MarkReadyUntilLine")
	}
	return s.report(float64(y) / float64(s.height))
}

// MarkReadyFromLine reports that rows [y, height) of the open frame are
// written, for backends producing rows bottom-up. It returns whether to
// continue.
func (s *Session) MarkReadyFromLine(y int) bool {
	if s.state != frameOpen {
		return s.violate("MarkReadyFromLine")
	}
	return s.report(float64(s.height-y) / float64(s.height))
}

// violate records a readiness report made outside a frame. A session
// unwinding after cancellation is not at fault.
func (s *Session) violate(op string) bool {
	if s.canceled {
		return false
	}
	if s.err == nil {
		s.err = fmt.Errorf("%w: %s after frame %d", ErrNoFrame, op, s.index)
		s.log.Warn("decode: protocol violation", "err", s.err)
	}
	return false
}

// Err returns the protocol violation that broke the session, if any.
// BeginFrame and FinishFrame return it too.
func (s *Session) Err() error {
	return s.err
}

// report publishes intra-frame progress frac of the current frame as
// overall progress (frac + index) / frames.
func (s *Session) report(frac float64) bool {
	frac = min(max(frac, 0), 1)
	frames := max(s.total, s.index+1)
	return s.publish((frac + float64(s.index)) / float64(frames))
}

func (s *Session) publish(v float64) bool {
	if s.canceled {
		return false
	}
	if !s.producer.SetProgress(float32(v)) {
		s.cancel()
		return false
	}
	return true
}

// FinishFrame closes the open frame, converts it to the output format and
// hands it to the token. proceed is false when the decode was cancelled,
// including by the token's frame callback; the frame is kept either way.
func (s *Session) FinishFrame() (proceed bool, err error) {
	switch s.state {
	case finished:
		return false, ErrFinished
	case frameOpen:
	default:
		return false, ErrNoFrame
	}
	if s.err != nil {
		return false, s.err
	}

	f := s.cur
	s.cur = nil
	s.state = frameClosed
	if err := s.conv.MakeCompatible(f, s.of, s.enforce); err != nil {
		return false, fmt.Errorf("decode: frame %d: %w", f.Index, err)
	}

	s.img.Frames = append(s.img.Frames, f)
	s.index++
	s.log.Debug("decode: finish frame", "frame", f.Index, "format", f.Format(), "target", f.Target())

	if s.canceled {
		return false, nil
	}
	if !s.producer.AppendFrame(f) {
		s.cancel()
		return false, nil
	}
	return s.publish(float64(s.index) / float64(max(s.total, s.index))), nil
}

// Finish ends the session and returns the image. A frame still open is
// dropped. Later calls return the same image.
func (s *Session) Finish() *frame.Image {
	if s.state != finished {
		s.state = finished
		s.cur = nil
		s.img.Expected = s.total
		s.producer.Finish()
		s.log.Info("decode: finished", "frames", len(s.img.Frames), "expected", s.total,
			"warnings", len(s.img.Warnings), "canceled", s.canceled)
	}
	return &s.img
}

func (s *Session) cancel() {
	if !s.canceled {
		s.canceled = true
		s.log.Debug("decode: canceled", "frame", s.index)
	}
}
