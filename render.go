package matprop

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Draw traverses the scene tree and draws every visible sprite and
// sub-mesh with its resolved material, then writes queued screenshots.
// Materials without a compiled shader are skipped.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor != nil {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.draw(screen, s.root, 0, 0)
	s.flushScreenshots(screen)
}

func (s *Scene) draw(screen *ebiten.Image, n *Node, ox, oy float64) {
	if !n.Visible {
		return
	}
	x, y := ox+n.X, oy+n.Y
	if n.Type == NodeTypeSprite || n.Type == NodeTypeSubMesh {
		s.drawQuad(screen, n, x, y)
	}
	for i := 0; i < len(n.children); i++ {
		s.draw(screen, n.children[i], x, y)
	}
}

func (s *Scene) drawQuad(screen *ebiten.Image, n *Node, x, y float64) {
	m := n.RenderMaterial()
	if m == nil || m.IsDisposed() || m.Shader() == nil {
		return
	}
	w, h := int(n.Width), int(n.Height)
	if w <= 0 || h <= 0 {
		return
	}

	op := &s.shaderOp
	op.GeoM.Reset()
	op.GeoM.Translate(x, y)
	op.Uniforms = m.Uniforms()
	op.Images = m.Images()

	// Source images must match the quad size; oversized textures are
	// clipped to the quad, undersized ones skip the draw.
	for i, img := range op.Images {
		if img == nil {
			continue
		}
		b := img.Bounds()
		if b.Dx() < w || b.Dy() < h {
			return
		}
		if b.Dx() != w || b.Dy() != h {
			op.Images[i] = img.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Min.Y+h)).(*ebiten.Image)
		}
	}
	screen.DrawRectShader(w, h, m.Shader(), op)
}
