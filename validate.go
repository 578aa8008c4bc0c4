package matprop

import "fmt"

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue codes reported by Validate.
const (
	CodeInvalidMaterial    = "invalid-material"
	CodeUndefinedType      = "undefined-type"
	CodeMissingProperty    = "missing-property"
	CodeIncompatibleType   = "incompatible-type"
	CodeBindingKind        = "binding-kind"
	CodeSatelliteParameter = "satellite-parameters"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Node name and parameter
}

// Validate reports host configuration problems that injection silently
// tolerates: parameters the default material lacks or declares with another
// type, unresolved types, and hosts without a usable base material.
// Validate never mutates the host.
func Validate(h *Host) []Issue {
	var out []Issue
	if h == nil || h.node == nil {
		return []Issue{{Level: IssueError, Code: CodeInvalidMaterial, Message: "host is not attached to a node"}}
	}

	nodeName := h.node.Name
	mat := h.DefaultMaterial()
	if !mat.Valid() {
		out = append(out, Issue{
			Level:   IssueWarning,
			Code:    CodeInvalidMaterial,
			Message: "base material is missing or disposed; overrides are not applied",
			Path:    nodeName,
		})
	}

	if h.parent != nil && h.set.Len() > 0 {
		out = append(out, Issue{
			Level:   IssueWarning,
			Code:    CodeSatelliteParameter,
			Message: fmt.Sprintf("satellite has %d own parameters; the parent's are used", h.set.Len()),
			Path:    nodeName,
		})
	}

	for _, p := range h.authority().set.All() {
		path := nodeName + "." + p.name
		if p.typ == PropertyUndefined {
			out = append(out, Issue{Level: IssueWarning, Code: CodeUndefinedType, Message: "parameter type is not resolved", Path: path})
			continue
		}
		if b := p.binding; b != nil && !b.disposed && b.kind != bindingKind(p.typ) {
			out = append(out, Issue{
				Level:   IssueError,
				Code:    CodeBindingKind,
				Message: fmt.Sprintf("binding carries %s, parameter is %s", b.kind, p.typ),
				Path:    path,
			})
		}
		if !mat.Valid() {
			continue
		}
		sp, ok := mat.Layout().Lookup(p.name)
		switch {
		case !ok:
			out = append(out, Issue{Level: IssueWarning, Code: CodeMissingProperty, Message: "material does not declare parameter", Path: path})
		case !p.typ.compatible(sp.Type):
			out = append(out, Issue{
				Level:   IssueWarning,
				Code:    CodeIncompatibleType,
				Message: fmt.Sprintf("material declares %s, parameter is %s", sp.Type, p.typ),
				Path:    path,
			})
		}
	}
	return out
}
