package matprop

import "fmt"

// LiveBinding mirrors one parameter's value on a hidden node so an external
// animation driver can write it directly. Every value change marks the
// owning host dirty.
//
// The binding is owned by its node, not by the parameter. Destroying it
// (or disposing the node) copies the last value back into the parameter.
type LiveBinding struct {
	id   uint32
	name string
	kind PropertyType
	host *Host
	node *Node

	f float64
	i int
	c Color
	v Vec4
	t *Texture

	disposed bool
}

// bindingKind maps a property type to the binding kind that carries it.
func bindingKind(t PropertyType) PropertyType {
	if t == PropertyRange {
		return PropertyFloat
	}
	return t
}

func newLiveBinding(h *Host, name string, kind PropertyType) *LiveBinding {
	b := &LiveBinding{
		id:   PropertyID(name),
		name: name,
		kind: kind,
	}
	b.node = newBindingNode(b)
	b.setHost(h)
	return b
}

// ID returns PropertyID(Name()).
func (b *LiveBinding) ID() uint32 { return b.id }

// Name returns the mirrored property name.
func (b *LiveBinding) Name() string { return b.name }

// Kind returns the value kind: Color, Vector, Float, Texture, or Int.
func (b *LiveBinding) Kind() PropertyType { return b.kind }

// Host returns the owning host.
func (b *LiveBinding) Host() *Host { return b.host }

// Node returns the hidden node holding this binding.
func (b *LiveBinding) Node() *Node { return b.node }

// IsDisposed returns true once the binding has been destroyed.
func (b *LiveBinding) IsDisposed() bool { return b.disposed }

// setHost moves the binding under h's node.
func (b *LiveBinding) setHost(h *Host) {
	if h == nil || b.host == h {
		return
	}
	b.host = h
	if h.node != nil && b.node != nil && b.node.Parent != h.node {
		h.node.AddChild(b.node)
	}
}

func (b *LiveBinding) checkKind(kind PropertyType) {
	if b.kind != kind {
		panic(fmt.Sprintf("matprop: binding %q carries %s, not %s", b.name, b.kind, kind))
	}
}

func (b *LiveBinding) markDirty() {
	if b.host != nil && !b.disposed {
		b.host.MarkDirty()
	}
}

// Int returns the int payload.
func (b *LiveBinding) Int() int { return b.i }

// Float returns the float payload.
func (b *LiveBinding) Float() float64 { return b.f }

// Color returns the color payload.
func (b *LiveBinding) Color() Color { return b.c }

// Vector returns the vector payload.
func (b *LiveBinding) Vector() Vec4 { return b.v }

// Texture returns the texture payload.
func (b *LiveBinding) Texture() *Texture { return b.t }

// SetInt writes the int payload. Panics if the binding is not an Int binding.
func (b *LiveBinding) SetInt(v int) {
	b.checkKind(PropertyInt)
	if b.i == v {
		return
	}
	b.i = v
	b.markDirty()
}

// SetFloat writes the float payload. Panics if the binding is not a Float binding.
func (b *LiveBinding) SetFloat(v float64) {
	b.checkKind(PropertyFloat)
	if approxEqual(b.f, v) {
		return
	}
	b.f = v
	b.markDirty()
}

// SetColor writes the color payload. Panics if the binding is not a Color binding.
func (b *LiveBinding) SetColor(v Color) {
	b.checkKind(PropertyColor)
	if b.c == v {
		return
	}
	b.c = v
	b.markDirty()
}

// SetVector writes the vector payload. Panics if the binding is not a Vector binding.
func (b *LiveBinding) SetVector(v Vec4) {
	b.checkKind(PropertyVector)
	if approxVec4(b.v, v) {
		return
	}
	b.v = v
	b.markDirty()
}

// SetTexture writes the texture payload. Panics if the binding is not a Texture binding.
func (b *LiveBinding) SetTexture(v *Texture) {
	b.checkKind(PropertyTexture)
	if b.t == v {
		return
	}
	b.t = v
	b.markDirty()
}

// Destroy detaches the binding from its parameter and disposes its node.
func (b *LiveBinding) Destroy() {
	if b.disposed {
		return
	}
	b.detach()
	if n := b.node; n != nil {
		b.node = nil
		n.Dispose()
	}
}

// detach hands the value back to the parameter still pointing at this
// binding, then marks the binding disposed.
func (b *LiveBinding) detach() {
	if b.disposed {
		return
	}
	if b.host != nil {
		if p := b.host.authority().set.ByID(b.id); p != nil && p.binding == b {
			p.unbind()
		}
	}
	b.disposed = true
	b.host = nil
}
