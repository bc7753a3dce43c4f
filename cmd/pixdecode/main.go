// Command pixdecode decodes image files with pixio and reports what it got.
//
// Usage:
//
//	pixdecode [flags] file...
//
// For every file it prints the frames, their formats and any decoder
// warnings. With -png the first frame is written back as a PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/pixio"
	_ "github.com/gogpu/pixio/backend/stdimage"
	"github.com/gogpu/pixio/frame"
	"github.com/gogpu/pixio/negotiate"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/pref"
	"github.com/gogpu/pixio/texture/memtex"
)

var components = map[string]pixel.ComponentType{
	"u8":  pixel.U8,
	"u16": pixel.U16,
	"u32": pixel.U32,
	"f16": pixel.F16,
	"f32": pixel.F32,
}

func main() {
	var (
		comp     = flag.String("component", "u8", "preferred component type: u8, u16, u32, f16, f32")
		enforce  = flag.Bool("enforce", false, "treat every preference as required")
		tex      = flag.Bool("texture", false, "store frames in (in-memory) textures")
		output   = flag.String("png", "", "write the first frame of the last file to this PNG")
		lang     = flag.String("lang", "en", "language for number formatting")
		verbose  = flag.Bool("v", false, "log decoder diagnostics to stderr")
		interval = flag.Duration("progress", 100*time.Millisecond, "progress report interval, 0 to disable")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	ct, ok := components[*comp]
	if !ok {
		log.Fatalf("unknown component type %q", *comp)
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("invalid language: %v", err)
	}
	p := message.NewPrinter(tag)

	if *verbose {
		pixio.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	host := pixel.HostEndian()
	of := negotiate.Standard(host)
	of.Component = pref.Prefer(ct)

	dev := &memtex.Device{}
	opts := []pixio.Option{pixio.WithEnforce(*enforce), pixio.WithHostEndian(host)}
	if *tex {
		of.Target = pref.Require(frame.TargetTexture)
		of.Endian = pref.Require(pixel.LittleEndian)
		opts = append(opts, pixio.WithTextureDevice(dev))
	}

	var last *frame.Image
	for _, path := range flag.Args() {
		img, err := decodeFile(ctx, p, path, of, *interval, opts)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		report(p, path, img)
		last = img
	}

	if *output != "" && last != nil {
		if err := writePNG(ctx, *output, last, dev); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("First frame saved to %s\n", *output)
	}
}

// decodeFile decodes path while a second goroutine prints progress.
func decodeFile(ctx context.Context, p *message.Printer, path string, of negotiate.OutputFormat,
	interval time.Duration, opts []pixio.Option) (*frame.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := pixio.NewToken()
	tok.SetOnFrame(func(fr *frame.Frame) bool {
		p.Fprintf(os.Stderr, "%s: frame %d ready (%s)\n", path, fr.Index, fr.Format())
		return true
	})

	done := make(chan struct{})
	if interval > 0 {
		go func() {
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					p.Fprintf(os.Stderr, "%s: %.1f%%\n", path, tok.Progress()*100)
				}
			}
		}()
	}
	defer close(done)

	return pixio.DecodeWithToken(ctx, f, of, tok, opts...)
}

func report(p *message.Printer, path string, img *frame.Image) {
	p.Printf("%s: %d of %d frames", path, len(img.Frames), max(img.Expected, 1))
	if img.Incomplete() {
		p.Printf(" (incomplete)")
	}
	p.Println()
	for _, f := range img.Frames {
		var w, h int
		if b := f.Buffer(); b != nil {
			w, h = b.Width(), b.Height()
		} else if t := f.Texture(); t != nil {
			w, h = t.Width(), t.Height()
		}
		p.Printf("  #%d %dx%d %s %s %s gamma=%.2f %s", f.Index, w, h, f.Format(), f.Endian(),
			f.AlphaMode, f.Gamma, f.Target())
		if f.Duration > 0 {
			p.Printf(" %v", f.Duration)
		}
		p.Printf(" (%d bytes)\n", w*h*f.Format().Size())
	}
	for _, w := range img.Warnings {
		p.Printf("  warning: %s\n", w)
	}
}

// writePNG re-negotiates the first frame to straight rgba/u8 in a buffer
// and encodes it.
func writePNG(ctx context.Context, path string, img *frame.Image, dev *memtex.Device) error {
	first := img.First()
	if first == nil {
		return errors.New("no frame to save")
	}
	of := negotiate.Standard(pixel.HostEndian()).Enforce()
	of.Target = pref.Require(frame.TargetBuffer)

	conv := negotiate.Converter{Host: pixel.HostEndian(), Reader: dev}
	if err := conv.MakeCompatible(first, of, true); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b := first.Buffer()
	out := image.NewNRGBA(image.Rect(0, 0, b.Width(), b.Height()))
	for y := range b.Height() {
		copy(out.Pix[y*out.Stride:], b.Row(y))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
