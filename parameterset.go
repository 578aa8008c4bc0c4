package matprop

import "fmt"

// ParameterSet is an ordered collection of parameters, unique by name (and
// therefore by id). Lookups are linear; sets are small.
type ParameterSet struct {
	params []*Parameter
}

// NewParameterSet creates an empty set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{}
}

// Len returns the number of parameters.
func (s *ParameterSet) Len() int { return len(s.params) }

// At returns the parameter at index i.
func (s *ParameterSet) At(i int) *Parameter { return s.params[i] }

// All returns the parameters in insertion order. The returned slice MUST NOT be mutated.
func (s *ParameterSet) All() []*Parameter { return s.params }

// Get returns the parameter named name, or nil.
func (s *ParameterSet) Get(name string) *Parameter {
	for _, p := range s.params {
		if p.name == name {
			return p
		}
	}
	return nil
}

// ByID returns the parameter with the given id, or nil.
func (s *ParameterSet) ByID(id uint32) *Parameter {
	for _, p := range s.params {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Add appends p. Returns ErrDuplicateParameter if the name is taken.
func (s *ParameterSet) Add(p *Parameter) error {
	if s.Get(p.name) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateParameter, p.name)
	}
	s.params = append(s.params, p)
	return nil
}

// Remove deletes the parameter named name and reports whether it existed.
// Its binding, if any, is left in place for the next rebuild to collect.
func (s *ParameterSet) Remove(name string) bool {
	for i, p := range s.params {
		if p.name == name {
			copy(s.params[i:], s.params[i+1:])
			s.params[len(s.params)-1] = nil
			s.params = s.params[:len(s.params)-1]
			return true
		}
	}
	return false
}

// Clear removes every parameter.
func (s *ParameterSet) Clear() {
	for i := range s.params {
		s.params[i] = nil
	}
	s.params = s.params[:0]
}

// ResetToDefault resets every parameter the material declares to the
// material's current value. Parameters it does not declare are untouched.
func (s *ParameterSet) ResetToDefault(m *Material) {
	for _, p := range s.params {
		p.ResetToDefault(m)
	}
}

// paramHash combines the parameter ids independent of order. The sum is
// not collision resistant; a collision only costs a redundant write since
// every injection rewrites the full parameter state.
func (s *ParameterSet) paramHash() uint64 {
	var sum uint64
	for _, p := range s.params {
		sum += uint64(p.id)
	}
	return sum
}

// rebuild re-links every parameter to h, resolves Undefined types when
// allowInit is set, and creates or drops bindings to match h's animatable
// mode.
func (s *ParameterSet) rebuild(h *Host, allowCreateBinding, allowInit bool) {
	for _, p := range s.params {
		p.host = h

		if p.typ == PropertyUndefined {
			if !allowInit {
				continue
			}
			p.Init(h.DefaultMaterial())
			if p.typ == PropertyUndefined {
				continue
			}
		}

		if h.animatable {
			if p.Binding() == nil && allowCreateBinding {
				p.bind(p.newBinding(h))
			}
		} else {
			p.dropBinding()
		}
	}
}
