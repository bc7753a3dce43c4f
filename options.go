package pixio

import (
	"github.com/gogpu/pixio/decode"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/texture"
)

// Option configures a Decode call.
//
// Example:
//
//	// Decode straight into textures on dev, requiring the output format
//	img, err := pixio.Decode(ctx, r, of,
//		pixio.WithTextureDevice(dev),
//		pixio.WithEnforce(true))
type Option func(*options)

type options struct {
	backend string
	session []decode.Option
}

func defaultOptions() options {
	return options{}
}

// WithBackend skips header sniffing and decodes with the named backend.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithSessionOptions passes options to the decode session.
func WithSessionOptions(opts ...decode.Option) Option {
	return func(o *options) {
		o.session = append(o.session, opts...)
	}
}

// WithEnforce makes preferred output properties binding.
// Shorthand for WithSessionOptions(decode.WithEnforce(enforce)).
func WithEnforce(enforce bool) Option {
	return WithSessionOptions(decode.WithEnforce(enforce))
}

// WithHostEndian sets the byte order conversions compute in.
// Shorthand for WithSessionOptions(decode.WithHostEndian(e)).
func WithHostEndian(e pixel.Endian) Option {
	return WithSessionOptions(decode.WithHostEndian(e))
}

// WithTextureDevice sets the device textures are created on.
// Shorthand for WithSessionOptions(decode.WithTextureDevice(dev)).
func WithTextureDevice(dev texture.Device) Option {
	return WithSessionOptions(decode.WithTextureDevice(dev))
}
