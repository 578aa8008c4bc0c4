package matprop

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestDrawSkipsMaterialsWithoutShader(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 1)
	s.Root().AddChild(NewSprite("nomat", nil, 8, 8))
	s.Step(0)

	screen := ebiten.NewImage(32, 32)
	s.Draw(screen) // no shader anywhere: nothing to draw, no panic
}

func TestDrawTintedSprites(t *testing.T) {
	s := NewScene()
	s.ClearColor = &Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
	base := NewTintMaterial("tint")

	src := ebiten.NewImage(16, 16)
	base.SetTexture("MainTex", &Texture{Name: "src", Image: src})

	parent := NewContainer("group")
	parent.X, parent.Y = 4, 4
	s.Root().AddChild(parent)

	exact := NewSprite("exact", base, 16, 16)
	small := NewSprite("small", base, 8, 8)
	large := NewSprite("large", base, 32, 32)
	empty := NewSprite("empty", base, 0, 16)
	for _, n := range []*Node{exact, small, large, empty} {
		parent.AddChild(n)
		h := NewHost(n)
		h.Enable(s)
		h.SetColor("TintColor", Color{R: 1, A: 1})
		h.SetFloat("Amount", 0.5)
	}
	s.Step(0)

	if exact.RenderMaterial() == base {
		t.Fatal("sprites should draw with derived instances")
	}
	if exact.RenderMaterial().Shader() != base.Shader() {
		t.Error("instances should share the base shader")
	}

	screen := ebiten.NewImage(64, 64)
	s.Draw(screen)
}

func TestDrawSkipsInvisibleSubtree(t *testing.T) {
	s := NewScene()
	base := NewTintMaterial("tint")
	group := NewContainer("hidden")
	group.Visible = false
	s.Root().AddChild(group)
	n := NewSprite("child", base, 8, 8)
	group.AddChild(n)
	h := NewHost(n)
	h.Enable(s)
	h.SetFloat("Amount", 1)

	s.Step(0)
	if n.RenderMaterial() != base {
		t.Error("hidden sprite should not resolve an instance")
	}
	s.Draw(ebiten.NewImage(16, 16))
}
