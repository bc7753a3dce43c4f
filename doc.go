// Package pixio decodes images into pixel buffers or GPU textures in the
// format the caller asks for.
//
// # Overview
//
// A decode is a negotiation. The caller describes the output it wants with
// a negotiate.OutputFormat, where every property (component type, channel
// layout, byte order, alpha mode, gamma, orientation, storage) is either
// required, preferred or left to the decoder. The backend hands over frames
// in whatever native format is cheapest, and the session converts each frame
// just enough to satisfy the request.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/pixio"
//		_ "github.com/gogpu/pixio/backend/stdimage"
//		"github.com/gogpu/pixio/negotiate"
//		"github.com/gogpu/pixio/pixel"
//		"github.com/gogpu/pixio/pref"
//	)
//
//	of := negotiate.Standard(pixel.HostEndian())
//	of.Component = pref.Require(pixel.F32)
//
//	img, err := pixio.Decode(ctx, f, of)
//	if err != nil {
//		log.Fatal(err)
//	}
//	buf := img.First().Buffer()
//
// # Progress and Cancellation
//
// DecodeWithToken lets another goroutine watch a decode through a Token:
// it reads progress, receives finished frames as they are produced, and may
// stop the decode at any time. Cancelling the context stops the token too.
// A stopped decode is not an error: it returns the frames decoded so far in
// an image whose Incomplete method reports true.
//
// # Architecture
//
// The module is organized into:
//   - Model: pixel (formats), buffer (pixel storage), orient (isometries)
//   - Conversion: convert (component types, channels, byte order, gamma,
//     alpha mode, orientation)
//   - Negotiation: pref (preferences), negotiate (output formats)
//   - Decoding: progress (tokens), decode (sessions), backend (registry)
//   - Storage: frame (frames and images), texture (GPU textures)
package pixio
