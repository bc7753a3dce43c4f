package pixel

// Shape is implemented by the concrete pixel structs. Format reports the
// descriptor the struct's memory layout matches.
type Shape interface {
	Format() Format
}

// GrayPixel is a single luminance sample.
type GrayPixel[T Component] struct {
	Y T
}

// GrayAlphaPixel is luminance followed by alpha.
type GrayAlphaPixel[T Component] struct {
	Y, A T
}

// RGBPixel is a color pixel without alpha.
type RGBPixel[T Component] struct {
	R, G, B T
}

// RGBAPixel is a color pixel with alpha.
type RGBAPixel[T Component] struct {
	R, G, B, A T
}

// Format returns the descriptor of GrayPixel[T].
func (GrayPixel[T]) Format() Format { return Format{ComponentTypeOf[T](), Gray} }

// Format returns the descriptor of GrayAlphaPixel[T].
func (GrayAlphaPixel[T]) Format() Format { return Format{ComponentTypeOf[T](), GrayAlpha} }

// Format returns the descriptor of RGBPixel[T].
func (RGBPixel[T]) Format() Format { return Format{ComponentTypeOf[T](), RGB} }

// Format returns the descriptor of RGBAPixel[T].
func (RGBAPixel[T]) Format() Format { return Format{ComponentTypeOf[T](), RGBA} }
