package negotiate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/convert"
	"github.com/gogpu/pixio/frame"
	"github.com/gogpu/pixio/internal/logging"
	"github.com/gogpu/pixio/orient"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/texture"
)

// ErrIncompatible is returned when a frame cannot be brought to a required
// output property, such as big endian texture storage.
var ErrIncompatible = errors.New("negotiate: frame cannot satisfy output format")

// Converter brings frames to an output format.
type Converter struct {
	// Host is the byte order arithmetic happens in.
	Host pixel.Endian

	// Device creates textures for frames that must live in one.
	Device texture.Device

	// Reader reads textures back when a frame must move to a buffer or be
	// processed on the host.
	Reader texture.Reader

	// Options are passed to every conversion.
	Options []convert.Option

	// Logger receives Debug records for each conversion step. nil means
	// the shared pixio logger.
	Logger *slog.Logger
}

// MakeCompatible converts f so that every active preference of of holds,
// updating the frame's storage and properties as it goes. A preference is
// active when it is Require, or Prefer while enforce is set.
//
// Steps run in a fixed order: pixel format, alpha mode and gamma,
// orientation, storage target, and byte order last. Frames stored in a
// texture are read back first when any host-side step has to run.
func (c *Converter) MakeCompatible(f *frame.Frame, of OutputFormat, enforce bool) error {
	log := logging.Or(c.Logger)
	host := c.Host

	if tf := of.TargetFormat(f.Format(), enforce); tf != f.Format() {
		b, err := c.hostBuffer(f)
		if err != nil {
			return err
		}
		nb, err := convert.PixelFormat(b, tf, b.Endian(), host, c.Options...)
		if err != nil {
			return err
		}
		log.Debug("negotiate: pixel format", "frame", f.Index, "from", b.Format(), "to", tf)
		f.Storage = nb
	}

	hasAlpha := f.Format().Layout.HasAlpha()
	alpha := of.Alpha.Active(enforce) && hasAlpha && f.AlphaMode != of.Alpha.Value
	gamma := of.Gamma.Active(enforce) && f.Gamma != of.Gamma.Value
	if alpha || gamma {
		b, err := c.hostBuffer(f)
		if err != nil {
			return err
		}
		final := f.AlphaMode
		if alpha {
			final = of.Alpha.Value
		}
		// Gamma curves apply to straight color, whatever mode the frame
		// ends up in.
		if hasAlpha && f.AlphaMode == pixel.Premultiplied && (gamma || final == pixel.Straight) {
			c.alpha(f, b, pixel.Straight)
		}
		if gamma {
			if err := c.gamma(f, b, of.Gamma.Value); err != nil {
				return err
			}
		}
		if hasAlpha && f.AlphaMode != final {
			c.alpha(f, b, final)
		}
	}

	if of.Orientation.Active(enforce) && f.Orientation != of.Orientation.Value {
		b, err := c.hostBuffer(f)
		if err != nil {
			return err
		}
		iso := orient.Correction(f.Orientation, of.Orientation.Value)
		nb, err := convert.Orientation(b, iso, c.Options...)
		if err != nil {
			return err
		}
		log.Debug("negotiate: orientation", "frame", f.Index, "apply", iso)
		f.Storage = nb
		f.Orientation = of.Orientation.Value
	}

	if of.Target.Active(enforce) && f.Target() != of.Target.Value {
		switch of.Target.Value {
		case frame.TargetTexture:
			tex, err := texture.Upload(c.Device, f.Buffer(), host, c.Options...)
			if err != nil {
				return err
			}
			log.Debug("negotiate: upload", "frame", f.Index, "format", tex.Format())
			f.Storage = tex
		default:
			if _, err := c.hostBuffer(f); err != nil {
				return err
			}
		}
	}

	if of.Endian.Active(enforce) {
		if b := f.Buffer(); b != nil && b.Endian() != of.Endian.Value {
			log.Debug("negotiate: byte order", "frame", f.Index, "from", b.Endian(), "to", of.Endian.Value)
			convert.SwapEndian(b, of.Endian.Value)
		}
	}

	check := of
	if enforce {
		check = of.Enforce()
	}
	if !check.SatisfiedBy(f) {
		return fmt.Errorf("%w: frame %d is %s/%s in %s", ErrIncompatible,
			f.Index, f.Format(), f.Endian(), f.Target())
	}
	return nil
}

// hostBuffer returns the frame's buffer, reading its texture back first if
// needed.
func (c *Converter) hostBuffer(f *frame.Frame) (*buffer.Buffer, error) {
	if b := f.Buffer(); b != nil {
		return b, nil
	}
	b, err := texture.Download(c.Reader, f.Texture())
	if err != nil {
		return nil, err
	}
	logging.Or(c.Logger).Debug("negotiate: download", "frame", f.Index, "format", b.Format())
	f.Storage = b
	return b, nil
}

func (c *Converter) alpha(f *frame.Frame, b *buffer.Buffer, to pixel.AlphaMode) {
	convert.AlphaMode(b, f.AlphaMode, to, c.Host, c.Options...)
	logging.Or(c.Logger).Debug("negotiate: alpha mode", "frame", f.Index, "from", f.AlphaMode, "to", to)
	f.AlphaMode = to
}

func (c *Converter) gamma(f *frame.Frame, b *buffer.Buffer, to float64) error {
	if f.Gamma > 0 {
		if err := convert.Gamma(b, f.Gamma, to, c.Host, c.Options...); err != nil {
			return err
		}
	}
	logging.Or(c.Logger).Debug("negotiate: gamma", "frame", f.Index, "from", f.Gamma, "to", to)
	f.Gamma = to
	return nil
}
