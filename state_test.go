package matprop

import (
	"errors"
	"strings"
	"testing"
)

func sampleParameters(tex *Texture) []*Parameter {
	speed := NewParameter("Speed", PropertyFloat)
	speed.SetFloat(1.5)
	tint := NewParameter("TintColor", PropertyColor)
	tint.SetColor(Color{R: 0.25, G: 0.5, B: 0.75, A: 1})
	offset := NewParameter("Offset", PropertyVector)
	offset.SetVector(Vec4{X: 1, Y: -2, Z: 3, W: 4})
	steps := NewParameter("Steps", PropertyInt)
	steps.SetInt(7)
	main := NewParameter("MainTex", PropertyTexture)
	main.SetTexture(tex)
	return []*Parameter{speed, tint, offset, steps, main}
}

func checkSampleParameters(t *testing.T, ps []*Parameter, tex *Texture) {
	t.Helper()
	if len(ps) != 5 {
		t.Fatalf("len = %d, want 5", len(ps))
	}
	names := []string{"Speed", "TintColor", "Offset", "Steps", "MainTex"}
	for i, p := range ps {
		if p.Name() != names[i] {
			t.Errorf("[%d] name = %q, want %q", i, p.Name(), names[i])
		}
		if p.ID() != PropertyID(names[i]) {
			t.Errorf("[%d] id not recomputed from name", i)
		}
	}
	assertNear(t, "Speed", ps[0].Float(), 1.5)
	if ps[1].Type() != PropertyColor || ps[1].Color() != (Color{R: 0.25, G: 0.5, B: 0.75, A: 1}) {
		t.Errorf("TintColor = %v %+v", ps[1].Type(), ps[1].Color())
	}
	if ps[2].Vector() != (Vec4{X: 1, Y: -2, Z: 3, W: 4}) {
		t.Errorf("Offset = %+v", ps[2].Vector())
	}
	if ps[3].Type() != PropertyInt || ps[3].Int() != 7 {
		t.Errorf("Steps = %v %d", ps[3].Type(), ps[3].Int())
	}
	if ps[4].Texture() != tex {
		t.Error("MainTex should resolve through the library")
	}
}

func TestParametersRoundTrip(t *testing.T) {
	tex := &Texture{Name: "noise"}
	lib := TextureLibrary{"noise": tex}

	for _, tt := range []struct {
		name   string
		format Format
		marker string
	}{
		{"json", FormatJSON, `"type": "float"`},
		{"yaml", FormatYAML, "vector4: [1, -2, 3, 4]"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalParameters(sampleParameters(tex), tt.format)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.marker) {
				t.Errorf("encoded data missing %q:\n%s", tt.marker, data)
			}
			ps, err := UnmarshalParameters(data, tt.format, lib)
			if err != nil {
				t.Fatal(err)
			}
			checkSampleParameters(t, ps, tex)
		})
	}
}

func TestUnmarshalParametersErrors(t *testing.T) {
	data, err := MarshalParameters(sampleParameters(&Texture{Name: "noise"}), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalParameters(data, FormatJSON, nil); !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("missing texture err = %v", err)
	}

	dup := `[{"name":"A","type":"float"},{"name":"A","type":"int"}]`
	if _, err := UnmarshalParameters([]byte(dup), FormatJSON, nil); !errors.Is(err, ErrDuplicateParameter) {
		t.Errorf("duplicate err = %v", err)
	}

	bad := `[{"name":"A","type":"matrix"}]`
	if _, err := UnmarshalParameters([]byte(bad), FormatJSON, nil); err == nil {
		t.Error("unknown property type should fail")
	}

	if _, err := UnmarshalParameters([]byte("{"), FormatJSON, nil); err == nil {
		t.Error("malformed json should fail")
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := MarshalParameters(nil, Format(9)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("marshal err = %v", err)
	}
	if _, err := UnmarshalParameters([]byte("[]"), Format(9), nil); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unmarshal err = %v", err)
	}
}

func TestHostStateRoundTrip(t *testing.T) {
	s, _ := newTestScene()
	src := newHostedSprite(s, "src", newTestMaterial("base"))
	src.ResetOnEnable = true
	src.SetSharingGroupID(3)
	src.SetFloat("Speed", 4)
	src.SetColor("TintColor", Color{R: 1, A: 1})

	data, err := src.MarshalState(FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "sharingGroupId: 3") {
		t.Errorf("encoded state:\n%s", data)
	}

	dst := newHostedSprite(s, "dst", newTestMaterial("base"))
	if err := dst.LoadState(data, FormatYAML, nil); err != nil {
		t.Fatal(err)
	}
	if !dst.ResetOnEnable || dst.SharingGroupID() != 3 || !dst.Animatable() {
		t.Errorf("settings: reset %v group %d animatable %v", dst.ResetOnEnable, dst.SharingGroupID(), dst.Animatable())
	}
	if len(dst.Parameters()) != 2 {
		t.Fatalf("parameters = %d, want 2", len(dst.Parameters()))
	}
	if dst.Get("Speed").Host() != dst {
		t.Error("loaded parameters should belong to the host")
	}

	s.Step(0)
	m := dst.Node().RenderMaterial()
	assertNear(t, "Speed", m.Float("Speed"), 4)
	if dst.Get("Speed").Binding() == nil {
		t.Error("animatable host should bind loaded parameters")
	}
}

func TestLoadStateRebindsExistingBinding(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 9)
	b := h.Get("Speed").Binding()

	data := []byte(`{"animatable":true,"parameters":[{"name":"Speed","type":"float","float":4}]}`)
	if err := h.LoadState(data, FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	s.Step(0)

	p := h.Get("Speed")
	if p.Binding() != b {
		t.Fatal("existing binding should be rebound by id")
	}
	assertNear(t, "binding value", b.Float(), 4)
	assertNear(t, "instance", h.Node().RenderMaterial().Float("Speed"), 4)
}

func TestLoadStateErrorLeavesHostUnchanged(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 9)

	data := []byte(`{"parameters":[{"name":"MainTex","type":"texture","texture":"missing"}]}`)
	if err := h.LoadState(data, FormatJSON, TextureLibrary{}); !errors.Is(err, ErrUnknownTexture) {
		t.Fatalf("err = %v", err)
	}
	if len(h.Parameters()) != 1 || h.Get("Speed") == nil {
		t.Error("host should keep its parameters on error")
	}
	if err := h.LoadState([]byte("{"), FormatJSON, nil); err == nil {
		t.Error("malformed state should fail")
	}
}

func TestSatelliteMarshalsParentState(t *testing.T) {
	s, _ := newTestScene()
	h, a, _ := newComposite(s, newTestMaterial("base"))
	h.SetFloat("Speed", 2.5)
	s.Step(0)

	got, err := a.Host().MarshalState(FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	want, err := h.MarshalState(FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("satellite state:\n%s\nparent state:\n%s", got, want)
	}
}
