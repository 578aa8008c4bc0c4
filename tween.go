package matprop

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// WrapMode selects what happens when a Tweener runs past its duration.
type WrapMode uint8

const (
	WrapClamp        WrapMode = iota // play once and hold the end value
	WrapLoop                         // restart after each interval
	WrapPingPongOnce                 // play forward then backward once
	WrapPingPong                     // play forward and backward forever
)

// UpdateMode selects where a Tweener's delta time comes from.
type UpdateMode uint8

const (
	UpdateScaled   UpdateMode = iota // Scene.Step delta times Scene.TimeScale
	UpdateUnscaled                   // raw Scene.Step delta
	UpdateManual                     // only UpdateTime and SetTime advance it
)

// minDuration keeps the time-to-rate division defined.
const minDuration = 0.001

// Curve remaps normalized time to a normalized rate. Curves need not be
// monotonic.
type Curve func(t float64) float64

// LinearCurve is the identity curve.
func LinearCurve(t float64) float64 { return t }

// EaseCurve adapts a gween easing function to a Curve.
func EaseCurve(fn ease.TweenFunc) Curve {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// PropertyPair holds the endpoints of one tweened parameter. The pair is
// named after From; To must have the same type.
type PropertyPair struct {
	From *Parameter
	To   *Parameter
}

// shouldInit reports whether either endpoint still needs its type resolved.
func (p PropertyPair) shouldInit() bool {
	return p.From.typ == PropertyUndefined || p.To.typ == PropertyUndefined
}

// apply writes lerp(From, To, rate) into host. Textures switch at 0.5.
// Panics if the pair's type is Undefined or out of range.
func (p PropertyPair) apply(h *Host, rate float64) {
	name := p.From.name
	switch p.From.typ {
	case PropertyColor:
		h.SetColor(name, LerpColor(p.From.Color(), p.To.Color(), rate))
	case PropertyVector:
		h.SetVector(name, LerpVec4(p.From.Vector(), p.To.Vector(), rate))
	case PropertyFloat, PropertyRange:
		h.SetFloat(name, lerp(p.From.Float(), p.To.Float(), rate))
	case PropertyTexture:
		if rate < 0.5 {
			h.SetTexture(name, p.From.Texture())
		} else {
			h.SetTexture(name, p.To.Texture())
		}
	case PropertyInt:
		h.SetInt(name, lerpInt(p.From.Int(), p.To.Int(), rate))
	default:
		panic(fmt.Sprintf("matprop: tween pair %q: invalid property type %s", name, p.From.typ))
	}
}

// Tweener drives one Host's parameters between from/to pairs over time.
// Register it with Scene.AddTweener for automatic updates, or use
// UpdateManual and call UpdateTime yourself.
type Tweener struct {
	// RestartOnEnable restarts the tween when it is added to a scene.
	RestartOnEnable bool
	// WrapMode selects the wrap policy.
	WrapMode WrapMode
	// UpdateMode selects the delta time source.
	UpdateMode UpdateMode

	target *Host
	pairs  []PropertyPair
	curve  Curve

	delay    float64
	duration float64
	interval float64

	rate    float64
	applied bool
	time    float64
}

// NewTweener creates a tweener for target with a 1 second linear loop.
func NewTweener(target *Host) *Tweener {
	return &Tweener{
		RestartOnEnable: true,
		WrapMode:        WrapLoop,
		UpdateMode:      UpdateScaled,
		target:          target,
		curve:           LinearCurve,
		duration:        1,
	}
}

// Target returns the driven host.
func (tw *Tweener) Target() *Host { return tw.target }

// SetTarget replaces the driven host.
func (tw *Tweener) SetTarget(h *Host) {
	tw.target = h
	tw.applied = false
}

// Pairs returns the property pairs. The returned slice MUST NOT be mutated.
func (tw *Tweener) Pairs() []PropertyPair { return tw.pairs }

// Curve returns the rate curve.
func (tw *Tweener) Curve() Curve { return tw.curve }

// SetCurve sets the rate curve. Nil restores the linear curve.
func (tw *Tweener) SetCurve(c Curve) {
	if c == nil {
		c = LinearCurve
	}
	tw.curve = c
	tw.applied = false
}

// Delay returns the delay in seconds before the tween starts.
func (tw *Tweener) Delay() float64 { return tw.delay }

// SetDelay sets the delay, floored at 0.
func (tw *Tweener) SetDelay(sec float64) { tw.delay = math.Max(0, sec) }

// Duration returns the duration of one forward pass in seconds.
func (tw *Tweener) Duration() float64 { return tw.duration }

// SetDuration sets the duration, floored at 0.001.
func (tw *Tweener) SetDuration(sec float64) { tw.duration = math.Max(minDuration, sec) }

// Interval returns the pause in seconds between loops.
func (tw *Tweener) Interval() float64 { return tw.interval }

// SetInterval sets the interval, floored at 0.
func (tw *Tweener) SetInterval(sec float64) { tw.interval = math.Max(0, sec) }

// Rate returns the last normalized progress in [0, 1].
func (tw *Tweener) Rate() float64 { return tw.rate }

// SetRate clamps r to [0, 1] and, if it changed, writes the interpolated
// value of every pair into the target host. Pairs whose type cannot be
// resolved yet are skipped.
func (tw *Tweener) SetRate(r float64) {
	r = clamp01(r)
	if tw.applied && approxEqual(tw.rate, r) {
		return
	}
	tw.rate = r
	if tw.target == nil {
		return
	}
	tw.Rebuild()
	tw.applied = true
	evaluated := tw.curve(r)
	for _, p := range tw.pairs {
		if p.shouldInit() {
			continue
		}
		p.apply(tw.target, evaluated)
	}
}

// TotalTime returns the length of one full cycle including the delay.
func (tw *Tweener) TotalTime() float64 {
	switch tw.WrapMode {
	case WrapClamp:
		return tw.delay + tw.duration
	case WrapLoop:
		return tw.delay + tw.duration + tw.interval
	case WrapPingPongOnce:
		return tw.delay + tw.duration*2 + tw.interval
	case WrapPingPong:
		return tw.delay + tw.duration*2 + tw.interval*2
	default:
		panic(fmt.Sprintf("matprop: invalid wrap mode %d", tw.WrapMode))
	}
}

// Time returns the accumulated time folded into the current cycle.
func (tw *Tweener) Time() float64 {
	if tw.time < tw.delay {
		return tw.time
	}
	t := tw.time - tw.delay
	cycle := tw.TotalTime() - tw.delay
	switch tw.WrapMode {
	case WrapClamp, WrapPingPongOnce:
		return clamp(t, 0, cycle) + tw.delay
	default:
		return repeat(t, cycle) + tw.delay
	}
}

// Restart rewinds to time zero.
func (tw *Tweener) Restart() {
	tw.SetTime(0)
}

// SetTime jumps to an absolute time in seconds.
func (tw *Tweener) SetTime(sec float64) {
	tw.time = 0
	tw.UpdateTime(sec)
}

// UpdateTime advances by delta seconds (negative deltas count as zero) and
// applies the resulting rate.
func (tw *Tweener) UpdateTime(delta float64) {
	tw.SetRate(tw.advance(math.Max(0, delta)) / tw.duration)
}

// advance accumulates delta and maps the time to progress in [0, duration].
func (tw *Tweener) advance(delta float64) float64 {
	tw.time += delta
	if tw.time < tw.delay {
		return 0
	}

	t := tw.time - tw.delay
	d, i := tw.duration, tw.interval
	switch tw.WrapMode {
	case WrapLoop:
		t = repeat(t, d+i)
	case WrapPingPongOnce:
		t = clamp(t, 0, d*2+i)
		t = pingPong(t, d+i*0.5)
	case WrapPingPong:
		t = repeat(t, (d+i)*2)
		if t < d*2+i {
			t = pingPong(t, d+i*0.5)
		} else {
			t = 0
		}
	}
	return clamp(t, 0, d)
}

// repeat wraps t into [0, length).
func repeat(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	return clamp(t-math.Floor(t/length)*length, 0, length)
}

// pingPong folds t into [0, length], mirroring on odd periods.
func pingPong(t, length float64) float64 {
	t = repeat(t, length*2)
	return length - math.Abs(t-length)
}

// --- Pairs ---

func (tw *Tweener) addPair(name string, typ PropertyType) (from, to *Parameter) {
	from = NewParameter(name, typ)
	to = NewParameter(name, typ)
	tw.pairs = append(tw.pairs, PropertyPair{From: from, To: to})
	tw.applied = false
	return from, to
}

// AddFloatPair tweens the float parameter name from a to b.
func (tw *Tweener) AddFloatPair(name string, a, b float64) {
	from, to := tw.addPair(name, PropertyFloat)
	from.floatValue, to.floatValue = a, b
}

// AddColorPair tweens the color parameter name from a to b.
func (tw *Tweener) AddColorPair(name string, a, b Color) {
	from, to := tw.addPair(name, PropertyColor)
	from.color, to.color = a, b
}

// AddVectorPair tweens the vector parameter name from a to b.
func (tw *Tweener) AddVectorPair(name string, a, b Vec4) {
	from, to := tw.addPair(name, PropertyVector)
	from.vector, to.vector = a, b
}

// AddIntPair tweens the int parameter name from a to b, rounding half to even.
func (tw *Tweener) AddIntPair(name string, a, b int) {
	from, to := tw.addPair(name, PropertyInt)
	from.intValue, to.intValue = a, b
}

// AddTexturePair switches the texture parameter name from a to b at half rate.
func (tw *Tweener) AddTexturePair(name string, a, b *Texture) {
	from, to := tw.addPair(name, PropertyTexture)
	from.texture, to.texture = a, b
}

// AddPair adds a pair whose type and endpoints are resolved from the
// target's default material on Rebuild. Returns the endpoints for editing.
func (tw *Tweener) AddPair(name string) (from, to *Parameter) {
	return tw.addPair(name, PropertyUndefined)
}

// RemovePair removes every pair named name.
func (tw *Tweener) RemovePair(name string) {
	kept := tw.pairs[:0]
	for _, p := range tw.pairs {
		if p.From.name != name {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(tw.pairs); i++ {
		tw.pairs[i] = PropertyPair{}
	}
	tw.pairs = kept
}

// Rebuild resolves Undefined endpoints against the target's default
// material. Pairs already typed are untouched.
func (tw *Tweener) Rebuild() {
	if tw.target == nil {
		return
	}
	init := false
	for _, p := range tw.pairs {
		if p.shouldInit() {
			init = true
			break
		}
	}
	if !init {
		return
	}
	mat := tw.target.DefaultMaterial()
	for _, p := range tw.pairs {
		if p.From.typ == PropertyUndefined {
			p.From.Init(mat)
		}
		if p.To.typ == PropertyUndefined {
			p.To.Init(mat)
		}
	}
	tw.applied = false
}

// ResetPropertiesToDefault resets both endpoints of every pair to the
// target's default material values.
func (tw *Tweener) ResetPropertiesToDefault() {
	if tw.target == nil {
		return
	}
	tw.Rebuild()
	mat := tw.target.DefaultMaterial()
	for _, p := range tw.pairs {
		p.From.ResetToDefault(mat)
		p.To.ResetToDefault(mat)
	}
	tw.applied = false
}
