package matprop

// Parameter is a single named, typed override. Its value lives in plain
// storage, or in a LiveBinding when one is bound. Only the field matching
// Type is authoritative; the others are kept for persistence.
type Parameter struct {
	id   uint32
	name string
	typ  PropertyType

	intValue   int
	floatValue float64
	color      Color
	vector     Vec4
	texture    *Texture

	binding *LiveBinding
	host    *Host
}

// NewParameter creates a detached parameter. Use PropertyUndefined to have
// the type resolved against a material later (see Init).
func NewParameter(name string, typ PropertyType) *Parameter {
	return &Parameter{
		id:   PropertyID(name),
		name: name,
		typ:  typ,
	}
}

func newHostParameter(h *Host, name string, typ PropertyType) *Parameter {
	p := NewParameter(name, typ)
	p.host = h
	return p
}

// ID returns PropertyID(Name()).
func (p *Parameter) ID() uint32 { return p.id }

// Name returns the property name.
func (p *Parameter) Name() string { return p.name }

// Type returns the property type.
func (p *Parameter) Type() PropertyType { return p.typ }

// Host returns the owning host, or nil for detached parameters.
func (p *Parameter) Host() *Host { return p.host }

// Binding returns the bound LiveBinding, or nil. A binding that was
// destroyed behind the parameter's back is dropped here.
func (p *Parameter) Binding() *LiveBinding {
	if p.binding != nil && p.binding.disposed {
		p.binding = nil
	}
	return p.binding
}

// bindingOf returns the live binding when it carries kind.
func (p *Parameter) bindingOf(kind PropertyType) *LiveBinding {
	if b := p.Binding(); b != nil && b.kind == kind {
		return b
	}
	return nil
}

// Int returns the current int value.
func (p *Parameter) Int() int {
	if b := p.bindingOf(PropertyInt); b != nil {
		return b.i
	}
	return p.intValue
}

// Float returns the current float value (Float and Range types).
func (p *Parameter) Float() float64 {
	if b := p.bindingOf(PropertyFloat); b != nil {
		return b.f
	}
	return p.floatValue
}

// Color returns the current color value.
func (p *Parameter) Color() Color {
	if b := p.bindingOf(PropertyColor); b != nil {
		return b.c
	}
	return p.color
}

// Vector returns the current vector value.
func (p *Parameter) Vector() Vec4 {
	if b := p.bindingOf(PropertyVector); b != nil {
		return b.v
	}
	return p.vector
}

// Texture returns the current texture value.
func (p *Parameter) Texture() *Texture {
	if b := p.bindingOf(PropertyTexture); b != nil {
		return b.t
	}
	return p.texture
}

// SetInt writes an int value. The host is marked dirty only on change.
func (p *Parameter) SetInt(v int) {
	if b := p.bindingOf(PropertyInt); b != nil {
		p.intValue = v
		b.SetInt(v)
		return
	}
	if p.intValue == v {
		return
	}
	p.intValue = v
	p.markDirty()
}

// SetFloat writes a float value. Values within floatEpsilon are treated as
// unchanged.
func (p *Parameter) SetFloat(v float64) {
	if b := p.bindingOf(PropertyFloat); b != nil {
		p.floatValue = v
		b.SetFloat(v)
		return
	}
	if approxEqual(p.floatValue, v) {
		return
	}
	p.floatValue = v
	p.markDirty()
}

// SetColor writes a color value.
func (p *Parameter) SetColor(v Color) {
	if b := p.bindingOf(PropertyColor); b != nil {
		p.color = v
		b.SetColor(v)
		return
	}
	if p.color == v {
		return
	}
	p.color = v
	p.markDirty()
}

// SetVector writes a vector value. Components are compared approximately.
func (p *Parameter) SetVector(v Vec4) {
	if b := p.bindingOf(PropertyVector); b != nil {
		p.vector = v
		b.SetVector(v)
		return
	}
	if approxVec4(p.vector, v) {
		return
	}
	p.vector = v
	p.markDirty()
}

// SetTexture writes a texture value.
func (p *Parameter) SetTexture(v *Texture) {
	if b := p.bindingOf(PropertyTexture); b != nil {
		p.texture = v
		b.SetTexture(v)
		return
	}
	if p.texture == v {
		return
	}
	p.texture = v
	p.markDirty()
}

func (p *Parameter) markDirty() {
	if p.host != nil {
		p.host.MarkDirty()
	}
}

// bind attaches b and pushes the stored value into it.
func (p *Parameter) bind(b *LiveBinding) {
	if p.binding == b {
		return
	}
	p.binding = b
	if b == nil {
		return
	}
	switch b.kind {
	case PropertyInt:
		b.SetInt(p.intValue)
	case PropertyFloat:
		b.SetFloat(p.floatValue)
	case PropertyColor:
		b.SetColor(p.color)
	case PropertyVector:
		b.SetVector(p.vector)
	case PropertyTexture:
		b.SetTexture(p.texture)
	}
}

// unbind detaches the binding after copying its last value back into plain
// storage. Returns the detached binding.
func (p *Parameter) unbind() *LiveBinding {
	b := p.binding
	if b == nil {
		return nil
	}
	p.binding = nil
	if b.disposed {
		return b
	}
	switch b.kind {
	case PropertyInt:
		p.intValue = b.i
	case PropertyFloat:
		p.floatValue = b.f
	case PropertyColor:
		p.color = b.c
	case PropertyVector:
		p.vector = b.v
	case PropertyTexture:
		p.texture = b.t
	}
	return b
}

// dropBinding unbinds and destroys the binding, if any.
func (p *Parameter) dropBinding() {
	if b := p.unbind(); b != nil {
		b.Destroy()
	}
}

// newBinding creates a LiveBinding of the matching kind under h.
func (p *Parameter) newBinding(h *Host) *LiveBinding {
	p.typ.mustBeDefined("newBinding")
	return newLiveBinding(h, p.name, bindingKind(p.typ))
}

// IsValid reports whether m declares this parameter with a compatible type.
func (p *Parameter) IsValid(m *Material) bool {
	return m.Has(p.name, p.typ)
}

// Inject writes the current value into every material that declares it.
// Materials lacking the parameter are skipped.
func (p *Parameter) Inject(materials ...*Material) {
	for _, m := range materials {
		if !p.IsValid(m) {
			continue
		}
		switch p.typ {
		case PropertyColor:
			m.SetColor(p.name, p.Color())
		case PropertyFloat, PropertyRange:
			m.SetFloat(p.name, p.Float())
		case PropertyVector:
			m.SetVector(p.name, p.Vector())
		case PropertyTexture:
			m.SetTexture(p.name, p.Texture())
		case PropertyInt:
			m.SetInt(p.name, p.Int())
		default:
			p.typ.mustBeDefined("Inject")
		}
	}
}

// ResetToDefault overwrites the value with m's current value for the same
// name. Nothing happens if m is invalid or lacks the parameter. Panics if
// the type is Undefined or out of range while m is usable.
func (p *Parameter) ResetToDefault(m *Material) {
	if !m.Valid() {
		return
	}
	p.typ.mustBeDefined("ResetToDefault")
	if !p.IsValid(m) {
		return
	}
	switch p.typ {
	case PropertyColor:
		p.SetColor(m.Color(p.name))
	case PropertyFloat, PropertyRange:
		p.SetFloat(m.Float(p.name))
	case PropertyVector:
		p.SetVector(m.Vector(p.name))
	case PropertyTexture:
		p.SetTexture(m.Texture(p.name))
	case PropertyInt:
		p.SetInt(m.Int(p.name))
	}
}

// Init clears the value and resolves the type against m's declared
// parameters, defaulting to Vector for names m does not declare, then
// snapshots m's value as the default. The type stays Undefined when m is
// not usable.
func (p *Parameter) Init(m *Material) {
	p.dropBinding()
	p.intValue = 0
	p.floatValue = 0
	p.color = Color{}
	p.vector = Vec4{}
	p.texture = nil
	p.id = PropertyID(p.name)
	if !m.Valid() {
		return
	}
	p.typ = resolveType(m.Layout(), p.name)
	p.ResetToDefault(m)
}

// resolveType maps a declared parameter to its property type.
func resolveType(l *ShaderLayout, name string) PropertyType {
	if sp, ok := l.Lookup(name); ok {
		return sp.Type
	}
	return PropertyVector
}
