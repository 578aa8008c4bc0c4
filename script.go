package matprop

import "fmt"

// scriptStep is a single action in a scenario script.
type scriptStep struct {
	Action string `json:"action" yaml:"action"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Node   string `json:"node,omitempty" yaml:"node,omitempty"`
	Param  string `json:"param,omitempty" yaml:"param,omitempty"`
	Frames int    `json:"frames,omitempty" yaml:"frames,omitempty"`

	Float  *float64    `json:"float,omitempty" yaml:"float,omitempty"`
	Int    *int        `json:"int,omitempty" yaml:"int,omitempty"`
	Color  *[4]float64 `json:"color,omitempty" yaml:"color,omitempty,flow"`
	Vector *[4]float64 `json:"vector4,omitempty" yaml:"vector4,omitempty,flow"`
}

// scenarioScript is the top-level structure of a scenario script.
type scenarioScript struct {
	Steps []scriptStep `json:"steps" yaml:"steps"`
}

// ScriptRunner plays a scenario script against a Scene, one action per
// step, for automated testing of parameter setups. Actions:
//
//	set         write a value into a host parameter (node, param, value)
//	expect      compare the value the node's material renders with
//	enable      enable the node's host
//	disable     disable the node's host
//	wait        idle for the given number of frames
//	screenshot  queue a labeled screenshot of the next Draw
//
// Nodes are addressed by name; the first match in tree order wins.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadScript parses a scenario script and returns a ScriptRunner ready to be
// attached to a Scene via SetScriptRunner.
func LoadScript(data []byte, format Format) (*ScriptRunner, error) {
	var script scenarioScript
	if err := decode(data, &script, format); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the scene. The runner advances
// at the start of every Step.
func (s *Scene) SetScriptRunner(r *ScriptRunner) {
	s.script = r
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Failures returns one message per failed step, in order. The returned
// slice MUST NOT be mutated.
func (r *ScriptRunner) Failures() []string {
	return r.failures
}

func (r *ScriptRunner) failf(st scriptStep, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.failures = append(r.failures, fmt.Sprintf("step %d (%s %s.%s): %s", r.cursor, st.Action, st.Node, st.Param, msg))
}

// step advances the runner by one frame. Called from Scene.Step.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "set", "expect", "enable", "disable":
		n := s.findNode(st.Node)
		if n == nil {
			r.failf(st, "node not found")
			break
		}
		r.apply(s, n, st)
	default:
		r.failf(st, "unknown action")
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) apply(s *Scene, n *Node, st scriptStep) {
	switch st.Action {
	case "enable":
		h := n.host
		if h == nil {
			h = NewHost(n)
		}
		h.Enable(s)
		return
	case "disable":
		if n.host != nil {
			n.host.Disable()
		}
		return
	}

	if st.Action == "set" {
		h := n.host
		if h == nil {
			r.failf(st, "node has no host")
			return
		}
		switch {
		case st.Float != nil:
			h.SetFloat(st.Param, *st.Float)
		case st.Int != nil:
			h.SetInt(st.Param, *st.Int)
		case st.Color != nil:
			c := st.Color
			h.SetColor(st.Param, Color{R: c[0], G: c[1], B: c[2], A: c[3]})
		case st.Vector != nil:
			v := st.Vector
			h.SetVector(st.Param, Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]})
		default:
			r.failf(st, "no value")
		}
		return
	}

	m := n.RenderMaterial()
	if m == nil {
		r.failf(st, "node has no material")
		return
	}
	switch {
	case st.Float != nil:
		if got := m.Float(st.Param); !approxEqual(got, *st.Float) {
			r.failf(st, "got %v, want %v", got, *st.Float)
		}
	case st.Int != nil:
		if got := m.Int(st.Param); got != *st.Int {
			r.failf(st, "got %d, want %d", got, *st.Int)
		}
	case st.Color != nil:
		c, want := m.Color(st.Param), st.Color
		if !approxVec4(Vec4{X: c.R, Y: c.G, Z: c.B, W: c.A}, Vec4{X: want[0], Y: want[1], Z: want[2], W: want[3]}) {
			r.failf(st, "got %+v, want %v", c, *want)
		}
	case st.Vector != nil:
		v, want := m.Vector(st.Param), st.Vector
		if !approxVec4(v, Vec4{X: want[0], Y: want[1], Z: want[2], W: want[3]}) {
			r.failf(st, "got %+v, want %v", v, *want)
		}
	default:
		r.failf(st, "no value")
	}
}

// findNode returns the first node named name in tree order, or nil.
func (s *Scene) findNode(name string) *Node {
	var found *Node
	walk(s.root, func(n *Node) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}
