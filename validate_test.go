package matprop

import "testing"

func issueCodes(issues []Issue) map[string]Issue {
	m := make(map[string]Issue, len(issues))
	for _, is := range issues {
		m[is.Code] = is
	}
	return m
}

func TestValidateCleanHost(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 1)
	h.SetColor("TintColor", ColorWhite)
	if issues := Validate(h); len(issues) != 0 {
		t.Errorf("issues = %+v", issues)
	}
}

func TestValidateDetachedHost(t *testing.T) {
	issues := Validate(nil)
	if len(issues) != 1 || issues[0].Level != IssueError || issues[0].Code != CodeInvalidMaterial {
		t.Errorf("issues = %+v", issues)
	}
}

func TestValidateInvalidMaterial(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "bare", nil)
	h.SetFloat("Speed", 1)

	got := issueCodes(Validate(h))
	is, ok := got[CodeInvalidMaterial]
	if !ok || is.Level != IssueWarning || is.Path != "bare" {
		t.Errorf("issues = %+v", got)
	}
	if _, ok := got[CodeMissingProperty]; ok {
		t.Error("property checks need a usable material")
	}
}

func TestValidateParameterProblems(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "fx", newTestMaterial("base"))
	h.SetAnimatable(false)
	h.SetFloat("Glow", 1)
	_ = h.set.Add(NewParameter("Speed", PropertyColor))
	_ = h.set.Add(NewParameter("Later", PropertyUndefined))

	got := issueCodes(Validate(h))
	tests := []struct {
		code, path string
	}{
		{CodeMissingProperty, "fx.Glow"},
		{CodeIncompatibleType, "fx.Speed"},
		{CodeUndefinedType, "fx.Later"},
	}
	for _, tt := range tests {
		is, ok := got[tt.code]
		if !ok {
			t.Errorf("missing %s issue", tt.code)
			continue
		}
		if is.Path != tt.path || is.Level != IssueWarning {
			t.Errorf("%s: path %q level %s", tt.code, is.Path, is.Level)
		}
	}
	if len(got) != 3 {
		t.Errorf("issues = %+v", got)
	}
	if h.Get("Later").Type() != PropertyUndefined {
		t.Error("Validate must not resolve types")
	}
}

func TestValidateBindingKind(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetAnimatable(false)
	h.SetFloat("Speed", 1)
	h.Get("Speed").binding = newLiveBinding(h, "Speed", PropertyColor)

	is, ok := issueCodes(Validate(h))[CodeBindingKind]
	if !ok || is.Level != IssueError {
		t.Errorf("binding kind issue = %+v", is)
	}
}

func TestValidateSatelliteParameters(t *testing.T) {
	s, _ := newTestScene()
	h, a, _ := newComposite(s, newTestMaterial("base"))
	h.SetFloat("Speed", 1)
	s.Step(0)

	sat := a.Host()
	if issues := Validate(sat); len(issues) != 0 {
		t.Fatalf("issues = %+v", issues)
	}
	_ = sat.set.Add(NewParameter("Speed", PropertyFloat))
	if _, ok := issueCodes(Validate(sat))[CodeSatelliteParameter]; !ok {
		t.Error("satellite with its own parameters should be reported")
	}
}

func TestValidateLeavesDisposedBinding(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 1)
	p := h.Get("Speed")
	b := p.binding
	if b == nil {
		t.Fatal("animatable host should bind Speed")
	}
	b.disposed = true

	Validate(h)
	if p.binding != b {
		t.Error("Validate should not clear a parameter's binding")
	}
}
