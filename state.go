package matprop

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of persisted state.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

// TextureLibrary resolves persisted texture references by name.
type TextureLibrary map[string]*Texture

// parameterState is the persisted form of a Parameter. The id is not
// stored; it is recomputed from the name on load.
type parameterState struct {
	Name    string       `json:"name" yaml:"name"`
	Type    PropertyType `json:"type" yaml:"type"`
	Int     int          `json:"int" yaml:"int"`
	Float   float64      `json:"float" yaml:"float"`
	Color   [4]float64   `json:"color" yaml:"color,flow"`
	Vector  [4]float64   `json:"vector4" yaml:"vector4,flow"`
	Texture string       `json:"texture,omitempty" yaml:"texture,omitempty"`
	Bound   bool         `json:"bound" yaml:"bound"`
}

// hostState is the persisted form of a Host.
type hostState struct {
	ResetOnEnable  bool             `json:"resetOnEnable" yaml:"resetOnEnable"`
	Animatable     bool             `json:"animatable" yaml:"animatable"`
	SharingGroupID uint32           `json:"sharingGroupId" yaml:"sharingGroupId"`
	Parameters     []parameterState `json:"parameters" yaml:"parameters"`
}

func toParameterState(p *Parameter) parameterState {
	c, v := p.Color(), p.Vector()
	st := parameterState{
		Name:   p.name,
		Type:   p.typ,
		Int:    p.Int(),
		Float:  p.Float(),
		Color:  [4]float64{c.R, c.G, c.B, c.A},
		Vector: [4]float64{v.X, v.Y, v.Z, v.W},
		Bound:  p.Binding() != nil,
	}
	if t := p.Texture(); t != nil {
		st.Texture = t.Name
	}
	return st
}

func fromParameterState(st parameterState, textures TextureLibrary) (*Parameter, error) {
	p := NewParameter(st.Name, st.Type)
	p.intValue = st.Int
	p.floatValue = st.Float
	p.color = Color{R: st.Color[0], G: st.Color[1], B: st.Color[2], A: st.Color[3]}
	p.vector = Vec4{X: st.Vector[0], Y: st.Vector[1], Z: st.Vector[2], W: st.Vector[3]}
	if st.Texture != "" {
		t, ok := textures[st.Texture]
		if !ok {
			return nil, fmt.Errorf("matprop: parameter %q: %w: %q", st.Name, ErrUnknownTexture, st.Texture)
		}
		p.texture = t
	}
	return p, nil
}

func encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("matprop: encode: %w %d", ErrUnknownFormat, format)
	}
}

func decode(data []byte, v any, format Format) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("matprop: decode: %w %d", ErrUnknownFormat, format)
	}
}

// MarshalParameters encodes params in the given format. Texture values are
// stored by name.
func MarshalParameters(params []*Parameter, format Format) ([]byte, error) {
	states := make([]parameterState, len(params))
	for i, p := range params {
		states[i] = toParameterState(p)
	}
	return encode(states, format)
}

// UnmarshalParameters decodes detached parameters. Texture references are
// resolved through textures; unknown names fail with ErrUnknownTexture.
func UnmarshalParameters(data []byte, format Format, textures TextureLibrary) ([]*Parameter, error) {
	var states []parameterState
	if err := decode(data, &states, format); err != nil {
		return nil, fmt.Errorf("matprop: unmarshal parameters: %w", err)
	}
	set := NewParameterSet()
	for _, st := range states {
		p, err := fromParameterState(st, textures)
		if err != nil {
			return nil, err
		}
		if err := set.Add(p); err != nil {
			return nil, fmt.Errorf("matprop: unmarshal parameters: %w", err)
		}
	}
	return set.All(), nil
}

// MarshalState encodes the host's settings and parameters. Parameters of
// Undefined type are resolved against the default material first.
// Satellites encode their parent's state.
func (h *Host) MarshalState(format Format) ([]byte, error) {
	a := h.authority()
	a.set.rebuild(a, false, true)
	st := hostState{
		ResetOnEnable:  a.ResetOnEnable,
		Animatable:     a.animatable,
		SharingGroupID: a.sharingGroupID,
		Parameters:     make([]parameterState, 0, a.set.Len()),
	}
	for _, p := range a.set.All() {
		st.Parameters = append(st.Parameters, toParameterState(p))
	}
	return encode(st, format)
}

// LoadState replaces the host's settings and parameters with decoded
// state. Existing LiveBindings are rebound by id on the next rebuild; the
// loaded value wins. On error the host is left unchanged.
func (h *Host) LoadState(data []byte, format Format, textures TextureLibrary) error {
	var st hostState
	if err := decode(data, &st, format); err != nil {
		return fmt.Errorf("matprop: load state: %w", err)
	}
	set := NewParameterSet()
	for _, ps := range st.Parameters {
		p, err := fromParameterState(ps, textures)
		if err != nil {
			return err
		}
		if err := set.Add(p); err != nil {
			return fmt.Errorf("matprop: load state: %w", err)
		}
	}

	a := h.authority()
	for _, p := range a.set.All() {
		p.unbind()
		p.host = nil
	}
	a.set = set
	a.ResetOnEnable = st.ResetOnEnable
	a.animatable = st.Animatable
	a.SetSharingGroupID(st.SharingGroupID)
	a.set.rebuild(a, false, false)
	a.scheduleRebuild()
	a.MarkDirty()
	a.setMaterialDirty()
	return nil
}
