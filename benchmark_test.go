package matprop

import (
	"fmt"
	"testing"
)

// setupBenchScene creates a Scene with n hosted sprites. With groups > 0
// the hosts are spread over that many sharing groups.
func setupBenchScene(n, groups int) (*Scene, []*Host) {
	s := NewScene()
	base := newTestMaterial("base")
	hosts := make([]*Host, n)
	for i := 0; i < n; i++ {
		sp := NewSprite(fmt.Sprintf("sp%d", i), base, 32, 32)
		sp.X = float64(i%100) * 40
		sp.Y = float64(i/100) * 40
		s.Root().AddChild(sp)
		h := NewHost(sp)
		h.SetAnimatable(false)
		h.Enable(s)
		if groups > 0 {
			h.SetSharingGroupID(uint32(i%groups) + 1)
		}
		h.SetFloat("Speed", float64(i))
		h.SetColor("TintColor", ColorWhite)
		hosts[i] = h
	}
	s.Step(0)
	return s, hosts
}

// --- Step ---

func BenchmarkStep_1000Hosts_Static(b *testing.B) {
	s, _ := setupBenchScene(1000, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(1.0 / 60)
	}
}

func BenchmarkStep_1000Hosts_AllDirty(b *testing.B) {
	s, hosts := setupBenchScene(1000, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := float64(i & 1)
		for _, h := range hosts {
			h.SetFloat("Speed", v)
		}
		s.Step(1.0 / 60)
	}
}

func BenchmarkStep_1000Hosts_Shared(b *testing.B) {
	s, hosts := setupBenchScene(1000, 8)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hosts[i%len(hosts)].SetFloat("Speed", float64(i))
		s.Step(1.0 / 60)
	}
}

func BenchmarkStep_1000Hosts_Tweened(b *testing.B) {
	s, hosts := setupBenchScene(1000, 0)
	for _, h := range hosts {
		tw := NewTweener(h)
		tw.AddFloatPair("Speed", 0, 1)
		tw.AddColorPair("TintColor", ColorWhite, Color{R: 1, A: 1})
		s.AddTweener(tw)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(1.0 / 60)
	}
}

// --- Cache ---

func BenchmarkMaterialCache_GetRelease(b *testing.B) {
	c := NewMaterialCache(nil)
	base := newTestMaterial("base")
	key := Hash128{A: base.ID(), B: 1}
	c.Get(key, base) // keep the entry alive
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(key, base)
		c.Release(key)
	}
}

func BenchmarkPropertyID(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = PropertyID("TintColor")
	}
}
