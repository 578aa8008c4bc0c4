package matprop

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PropertyTween animates one host parameter toward a target value, one
// gween.Tween per component. Create one via TweenFloat, TweenColor or
// TweenVector and call Update(dt) each frame. Values go through the host's
// setters, so the host is marked dirty only on change. If the host is
// destroyed, the tween stops immediately.
//
// Unlike Tweener, PropertyTweens are one-shot and not driven by the Scene.
type PropertyTween struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	target *Host
	name   string
	typ    PropertyType
	Done   bool
}

// Update advances all component tweens by dt seconds and writes the
// combined value into the target parameter.
func (g *PropertyTween) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target == nil || g.target.IsDestroyed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	v := g.values
	switch g.typ {
	case PropertyFloat:
		g.target.SetFloat(g.name, v[0])
	case PropertyColor:
		g.target.SetColor(g.name, Color{R: v[0], G: v[1], B: v[2], A: v[3]})
	case PropertyVector:
		g.target.SetVector(g.name, Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]})
	}
}

// current returns the parameter's value or, if absent, the default
// material's value.
func current(h *Host, name string) *Parameter {
	if p := h.Get(name); p != nil {
		return p
	}
	p := NewParameter(name, PropertyUndefined)
	p.Init(h.DefaultMaterial())
	return p
}

// TweenFloat creates a PropertyTween that animates the float parameter name
// from its current value to `to` over duration seconds.
func TweenFloat(h *Host, name string, to float64, duration float32, fn ease.TweenFunc) *PropertyTween {
	from := current(h, name).Float()
	g := &PropertyTween{count: 1, target: h, name: name, typ: PropertyFloat}
	g.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	return g
}

// TweenColor creates a PropertyTween that animates all four components of
// the color parameter name to `to`.
func TweenColor(h *Host, name string, to Color, duration float32, fn ease.TweenFunc) *PropertyTween {
	from := current(h, name).Color()
	g := &PropertyTween{count: 4, target: h, name: name, typ: PropertyColor}
	g.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	return g
}

// TweenVector creates a PropertyTween that animates all four components of
// the vector parameter name to `to`.
func TweenVector(h *Host, name string, to Vec4, duration float32, fn ease.TweenFunc) *PropertyTween {
	from := current(h, name).Vector()
	g := &PropertyTween{count: 4, target: h, name: name, typ: PropertyVector}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.tweens[2] = gween.New(float32(from.Z), float32(to.Z), duration, fn)
	g.tweens[3] = gween.New(float32(from.W), float32(to.W), duration, fn)
	return g
}
