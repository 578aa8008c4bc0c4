package matprop

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default color value for color parameters.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA for ebiten fills.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R)*clamp01(c.A)*255 + 0.5),
		G: uint8(clamp01(c.G)*clamp01(c.A)*255 + 0.5),
		B: uint8(clamp01(c.B)*clamp01(c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// LerpColor interpolates between a and b. The factor is clamped to [0, 1].
func LerpColor(a, b Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// Vec4 is a four-component vector parameter value.
type Vec4 struct {
	X, Y, Z, W float64
}

// LerpVec4 interpolates between a and b. The factor is clamped to [0, 1].
func LerpVec4(a, b Vec4, t float64) Vec4 {
	t = clamp01(t)
	return Vec4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

// approxVec4 compares component-wise with approxEqual.
func approxVec4(a, b Vec4) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y) &&
		approxEqual(a.Z, b.Z) && approxEqual(a.W, b.W)
}

// Texture is a named image resource. Identity is pointer identity; the name
// is what gets persisted.
type Texture struct {
	Name  string
	Image *ebiten.Image
}

// PropertyType identifies the kind of value a parameter carries.
type PropertyType uint8

const (
	PropertyColor     PropertyType = iota // RGBA color
	PropertyVector                        // four-component vector
	PropertyFloat                         // scalar float
	PropertyRange                         // scalar float with declared limits
	PropertyTexture                       // image resource
	PropertyInt                           // integer
	PropertyUndefined                     // not yet resolved against a material
)

var propertyTypeNames = [...]string{
	PropertyColor:     "color",
	PropertyVector:    "vector",
	PropertyFloat:     "float",
	PropertyRange:     "range",
	PropertyTexture:   "texture",
	PropertyInt:       "int",
	PropertyUndefined: "undefined",
}

// String returns the lowercase name of the type.
func (t PropertyType) String() string {
	if int(t) < len(propertyTypeNames) {
		return propertyTypeNames[t]
	}
	return fmt.Sprintf("PropertyType(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t PropertyType) MarshalText() ([]byte, error) {
	if int(t) >= len(propertyTypeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPropertyType, uint8(t))
	}
	return []byte(propertyTypeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *PropertyType) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range propertyTypeNames {
		if name == s {
			*t = PropertyType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPropertyType, s)
}

// compatible reports whether a parameter of type t can be written into a
// material slot declared as declared. Float and Range are interchangeable.
func (t PropertyType) compatible(declared PropertyType) bool {
	if t == PropertyUndefined || declared == PropertyUndefined {
		return false
	}
	if t.isScalar() && declared.isScalar() {
		return true
	}
	return t == declared
}

func (t PropertyType) isScalar() bool {
	return t == PropertyFloat || t == PropertyRange
}

// mustBeDefined panics for Undefined and out-of-range types. A value like
// that reaching a value-dispatch switch means the state is corrupted or was
// used before initialization.
func (t PropertyType) mustBeDefined(op string) {
	if t >= PropertyUndefined {
		panic(fmt.Sprintf("matprop: %s: invalid property type %s", op, t))
	}
}

// Hash128 is the material cache key.
type Hash128 struct {
	A, B, C, D uint32
}

// PropertyID returns the stable id for a property name.
func PropertyID(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// foldHash reduces the 64-bit parameter id sum to 32 bits.
func foldHash(v uint64) uint32 {
	return uint32(v) ^ uint32(v>>32)
}

const floatEpsilon = 1e-6

// approxEqual reports whether two floats are equal within a relative epsilon.
func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatEpsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// lerp interpolates between a and b with t clamped to [0, 1].
func lerp(a, b, t float64) float64 {
	return a + (b-a)*clamp01(t)
}

// lerpInt interpolates and rounds half to even.
func lerpInt(a, b int, t float64) int {
	return int(math.RoundToEven(lerp(float64(a), float64(b), t)))
}
