package matprop

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxTextureSlots is the number of source images a Kage shader can sample.
const maxTextureSlots = 4

// ShaderProperty declares one parameter of a shader together with its
// default value. Only the field matching Type is meaningful.
type ShaderProperty struct {
	Name    string
	Type    PropertyType
	Float   float64
	Int     int
	Color   Color
	Vector  Vec4
	Texture *Texture

	// Min and Max are the limits of a PropertyRange.
	Min, Max float64

	// Slot is the source image index (0-3) a PropertyTexture binds to.
	Slot int
}

// ShaderLayout is the declared parameter list of a shader.
type ShaderLayout struct {
	props []ShaderProperty
	index map[string]int
}

// NewShaderLayout builds a layout from the given declarations.
// Panics on duplicate names, Undefined types, or texture slots out of range.
func NewShaderLayout(props ...ShaderProperty) *ShaderLayout {
	l := &ShaderLayout{
		props: make([]ShaderProperty, 0, len(props)),
		index: make(map[string]int, len(props)),
	}
	for _, p := range props {
		if _, dup := l.index[p.Name]; dup {
			panic(fmt.Sprintf("matprop: duplicate shader property %q", p.Name))
		}
		p.Type.mustBeDefined("NewShaderLayout")
		if p.Type == PropertyTexture && (p.Slot < 0 || p.Slot >= maxTextureSlots) {
			panic(fmt.Sprintf("matprop: texture slot %d out of range for %q", p.Slot, p.Name))
		}
		l.index[p.Name] = len(l.props)
		l.props = append(l.props, p)
	}
	return l
}

// Lookup returns the declaration for name.
func (l *ShaderLayout) Lookup(name string) (ShaderProperty, bool) {
	if l == nil {
		return ShaderProperty{}, false
	}
	i, ok := l.index[name]
	if !ok {
		return ShaderProperty{}, false
	}
	return l.props[i], true
}

// Properties returns the declarations in order. The returned slice MUST NOT be mutated.
func (l *ShaderLayout) Properties() []ShaderProperty {
	if l == nil {
		return nil
	}
	return l.props
}

// materialValue holds the current value of one material slot.
type materialValue struct {
	f float64
	i int
	c Color
	v Vec4
	t *Texture
}

// materialIDCounter is a plain counter; matprop is single-threaded.
var materialIDCounter uint32

func nextMaterialID() uint32 {
	materialIDCounter++
	return materialIDCounter
}

// Material is a shader program plus its current parameter values. Base
// materials are shared between renderables; derived instances are produced
// by a MaterialBackend and handed out by a MaterialCache.
type Material struct {
	Name string

	id       uint32
	shader   *ebiten.Shader
	layout   *ShaderLayout
	values   map[string]materialValue
	disposed bool
	writes   int

	uniforms      map[string]any
	uniformsDirty bool
	images        [maxTextureSlots]*ebiten.Image
}

// NewMaterial creates a material for shader with the declared layout.
// shader may be nil for materials that are only resolved, never drawn.
func NewMaterial(name string, shader *ebiten.Shader, layout *ShaderLayout) *Material {
	return &Material{
		Name:          name,
		id:            nextMaterialID(),
		shader:        shader,
		layout:        layout,
		values:        make(map[string]materialValue),
		uniformsDirty: true,
	}
}

// ID returns the material's identity.
func (m *Material) ID() uint32 { return m.id }

// Shader returns the compiled Kage program, or nil.
func (m *Material) Shader() *ebiten.Shader { return m.shader }

// Layout returns the declared parameter list, or nil.
func (m *Material) Layout() *ShaderLayout { return m.layout }

// Valid reports whether the material can take parameter overrides: it must
// exist, carry a declared parameter list, and not be disposed.
func (m *Material) Valid() bool {
	return m != nil && !m.disposed && m.layout != nil
}

// IsDisposed returns true after Dispose.
func (m *Material) IsDisposed() bool { return m.disposed }

// Has reports whether the material declares name with a type compatible with t.
func (m *Material) Has(name string, t PropertyType) bool {
	if !m.Valid() {
		return false
	}
	p, ok := m.layout.Lookup(name)
	return ok && t.compatible(p.Type)
}

// Float returns the current float value of name.
func (m *Material) Float(name string) float64 {
	if v, ok := m.values[name]; ok {
		return v.f
	}
	p, _ := m.layout.Lookup(name)
	return p.Float
}

// Int returns the current int value of name.
func (m *Material) Int(name string) int {
	if v, ok := m.values[name]; ok {
		return v.i
	}
	p, _ := m.layout.Lookup(name)
	return p.Int
}

// Color returns the current color value of name.
func (m *Material) Color(name string) Color {
	if v, ok := m.values[name]; ok {
		return v.c
	}
	p, _ := m.layout.Lookup(name)
	return p.Color
}

// Vector returns the current vector value of name.
func (m *Material) Vector(name string) Vec4 {
	if v, ok := m.values[name]; ok {
		return v.v
	}
	p, _ := m.layout.Lookup(name)
	return p.Vector
}

// Texture returns the current texture of name.
func (m *Material) Texture(name string) *Texture {
	if v, ok := m.values[name]; ok {
		return v.t
	}
	p, _ := m.layout.Lookup(name)
	return p.Texture
}

// SetFloat writes a float value.
func (m *Material) SetFloat(name string, f float64) {
	m.write(name, materialValue{f: f})
}

// SetInt writes an int value.
func (m *Material) SetInt(name string, i int) {
	m.write(name, materialValue{i: i})
}

// SetColor writes a color value.
func (m *Material) SetColor(name string, c Color) {
	m.write(name, materialValue{c: c})
}

// SetVector writes a vector value.
func (m *Material) SetVector(name string, v Vec4) {
	m.write(name, materialValue{v: v})
}

// SetTexture writes a texture value.
func (m *Material) SetTexture(name string, t *Texture) {
	m.write(name, materialValue{t: t})
}

// Writes returns the number of parameter writes made to this material.
func (m *Material) Writes() int { return m.writes }

func (m *Material) write(name string, v materialValue) {
	if m.disposed {
		return
	}
	m.values[name] = v
	m.writes++
	m.uniformsDirty = true
}

// Clone returns an independent copy sharing the shader and layout.
func (m *Material) Clone() *Material {
	c := NewMaterial(m.Name+" (Instance)", m.shader, m.layout)
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// Dispose releases the material's state. The shader and textures are not
// owned by the material and are left alone.
func (m *Material) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.values = nil
	m.uniforms = nil
	m.images = [maxTextureSlots]*ebiten.Image{}
}

// Uniforms returns the uniform map for DrawRectShader. The map is reused
// between calls and rebuilt only after a write.
func (m *Material) Uniforms() map[string]any {
	if !m.uniformsDirty && m.uniforms != nil {
		return m.uniforms
	}
	if m.uniforms == nil {
		m.uniforms = make(map[string]any, len(m.layout.Properties()))
	}
	m.images = [maxTextureSlots]*ebiten.Image{}
	for _, p := range m.layout.Properties() {
		switch p.Type {
		case PropertyFloat, PropertyRange:
			m.uniforms[p.Name] = float32(m.Float(p.Name))
		case PropertyInt:
			m.uniforms[p.Name] = int32(m.Int(p.Name))
		case PropertyColor:
			c := m.Color(p.Name)
			m.uniforms[p.Name] = []float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
		case PropertyVector:
			v := m.Vector(p.Name)
			m.uniforms[p.Name] = []float32{float32(v.X), float32(v.Y), float32(v.Z), float32(v.W)}
		case PropertyTexture:
			if t := m.Texture(p.Name); t != nil {
				m.images[p.Slot] = t.Image
			}
		}
	}
	m.uniformsDirty = false
	return m.uniforms
}

// Images returns the source images bound by texture parameters.
func (m *Material) Images() [maxTextureSlots]*ebiten.Image {
	m.Uniforms()
	return m.images
}

// MaterialBackend creates and destroys derived material instances. It is
// called only on cache misses and on zero-refcount eviction.
type MaterialBackend interface {
	Clone(base *Material) *Material
	Destroy(m *Material)
}

// DefaultBackend clones materials in memory and disposes them on eviction.
type DefaultBackend struct{}

// Clone returns base.Clone().
func (DefaultBackend) Clone(base *Material) *Material { return base.Clone() }

// Destroy disposes m.
func (DefaultBackend) Destroy(m *Material) { m.Dispose() }

// --- Built-in tint material ---

const tintShaderSrc = `//kage:unit pixels
package main

var TintColor vec4
var Amount float
var Offset vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src + Offset.xy)
	// Un-premultiply alpha.
	if c.a > 0 {
		c.rgb /= c.a
	}
	rgb := mix(c.rgb, TintColor.rgb, clamp(Amount, 0, 1)*TintColor.a)
	a := c.a * color.a
	return vec4(rgb*a, a)
}
`

// tintShader is compiled on first use.
var tintShader *ebiten.Shader

func ensureTintShader() *ebiten.Shader {
	if tintShader == nil {
		s, err := ebiten.NewShader([]byte(tintShaderSrc))
		if err != nil {
			panic("matprop: failed to compile tint shader: " + err.Error())
		}
		tintShader = s
	}
	return tintShader
}

// TintLayout is the parameter list of the built-in tint shader.
var TintLayout = NewShaderLayout(
	ShaderProperty{Name: "MainTex", Type: PropertyTexture, Slot: 0},
	ShaderProperty{Name: "TintColor", Type: PropertyColor, Color: ColorWhite},
	ShaderProperty{Name: "Amount", Type: PropertyRange, Min: 0, Max: 1},
	ShaderProperty{Name: "Offset", Type: PropertyVector},
)

// NewTintMaterial creates a base material using the built-in tint shader.
// MainTex is sampled and mixed toward TintColor by Amount.
func NewTintMaterial(name string) *Material {
	return NewMaterial(name, ensureTintShader(), TintLayout)
}
