// Package backend keeps the registry of image decode backends.
//
// A backend recognizes a container format by its leading bytes and drives a
// decode.Session while parsing it. Backends register themselves from init()
// functions; the reference backends are registered on import:
//
//	import _ "github.com/gogpu/pixio/backend/stdimage"
//
// # Backend Selection
//
// Sniff peeks at the start of a stream and returns the first registered
// backend whose Match accepts it, in registration order. Use Get to pick a
// backend by name instead:
//
//	b, r, err := backend.Sniff(f)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	png := backend.Get("png")
package backend
