package decode

import (
	"log/slog"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/convert"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/texture"
)

// Option configures a Session.
type Option func(*options)

type options struct {
	host      pixel.Endian
	enforce   bool
	device    texture.Device
	reader    texture.Reader
	alignment int
	convert   []convert.Option
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		host:      pixel.HostEndian(),
		alignment: buffer.DefaultAlignment,
	}
}

// WithHostEndian sets the byte order conversions compute in. It defaults to
// the byte order of the running machine.
func WithHostEndian(e pixel.Endian) Option {
	return func(o *options) {
		o.host = e
	}
}

// WithEnforce makes Prefer preferences of the output format binding, as if
// the format had been passed through OutputFormat.Enforce.
func WithEnforce(enforce bool) Option {
	return func(o *options) {
		o.enforce = enforce
	}
}

// WithTextureDevice sets the device used for texture storage. When dev also
// implements texture.Reader it is used for readback too.
func WithTextureDevice(dev texture.Device) Option {
	return func(o *options) {
		o.device = dev
		if r, ok := dev.(texture.Reader); ok && o.reader == nil {
			o.reader = r
		}
	}
}

// WithTextureReader sets how textures are read back into buffers.
func WithTextureReader(r texture.Reader) Option {
	return func(o *options) {
		o.reader = r
	}
}

// WithAlignment sets the row alignment of frame buffers.
func WithAlignment(alignment int) Option {
	return func(o *options) {
		o.alignment = alignment
	}
}

// WithConvertOptions passes options to every conversion of the session.
func WithConvertOptions(opts ...convert.Option) Option {
	return func(o *options) {
		o.convert = append(o.convert, opts...)
	}
}

// WithLogger sets the session logger. By default the shared pixio logger
// is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
