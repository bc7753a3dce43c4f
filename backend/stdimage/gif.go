package stdimage

import (
	"image"
	"image/gif"
	"io"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/pixio/decode"
)

// defaultDelay replaces GIF delays too short to honor, matching what
// browsers do.
const defaultDelay = 100 * time.Millisecond

// animated decodes GIFs, compositing each frame onto the logical screen.
type animated struct{}

func (*animated) Name() string { return "gif" }

func (*animated) Match(header []byte) bool {
	return matchAny(header, []string{"GIF87a", "GIF89a"})
}

func (*animated) Decode(r io.Reader, s *decode.Session) error {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return decode.Errorf("gif", "%w", err)
	}
	n := len(g.Image)
	if n == 0 {
		return decode.NewError("gif", "no frames")
	}
	s.SetFrameCount(n)
	if n == 1 {
		return writeFrame(s, g.Image[0], 0)
	}
	if len(g.Delay) != n {
		s.Warnf("gif: %d delays for %d frames", len(g.Delay), n)
	}

	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() {
		screen = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(screen)
	var saved *image.NRGBA

	for i, p := range g.Image {
		if s.Canceled() {
			return nil
		}
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewNRGBA(screen)
			copy(saved.Pix, canvas.Pix)
		}

		xdraw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, xdraw.Over)
		if err := writeFrame(s, canvas, delay(s, g, i)); err != nil {
			return err
		}

		switch disposal {
		case gif.DisposalBackground:
			xdraw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, saved.Pix)
		}
	}
	return nil
}

// delay returns the display time of frame i.
func delay(s *decode.Session, g *gif.GIF, i int) time.Duration {
	if i >= len(g.Delay) {
		return defaultDelay
	}
	d := time.Duration(g.Delay[i]) * 10 * time.Millisecond
	if d <= 10*time.Millisecond {
		s.Warnf("gif: frame %d delay %v too short, using %v", i, d, defaultDelay)
		return defaultDelay
	}
	return d
}
