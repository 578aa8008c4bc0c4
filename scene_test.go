package matprop

import "testing"

// eventRecorder is an EntityStore that keeps every event.
type eventRecorder struct {
	events []InjectionEvent
}

func (r *eventRecorder) EmitEvent(e InjectionEvent) {
	r.events = append(r.events, e)
}

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.root == nil {
		t.Fatal("root should not be nil")
	}
	if s.root.Name != "root" {
		t.Errorf("root.Name = %q, want %q", s.root.Name, "root")
	}
	if s.root.Type != NodeTypeContainer {
		t.Errorf("root.Type = %d, want NodeTypeContainer", s.root.Type)
	}
	if s.TimeScale != 1 {
		t.Errorf("TimeScale = %v, want 1", s.TimeScale)
	}
	if s.Cache() == nil || s.Cache().Len() != 0 {
		t.Error("scene should start with an empty cache")
	}
}

func TestSceneRoot(t *testing.T) {
	s := NewScene()
	if s.Root() != s.root {
		t.Error("Root() should return the internal root node")
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	if !s.debug || !globalDebug {
		t.Error("debug should be true")
	}
	s.SetDebugMode(false)
	if s.debug || globalDebug {
		t.Error("debug should be false")
	}
}

func TestAfterLayoutSubscribe(t *testing.T) {
	var a AfterLayout
	var calls []int
	a.Subscribe(1, func() { calls = append(calls, 1) })
	a.Subscribe(2, func() { calls = append(calls, 2) })
	a.Subscribe(1, func() { calls = append(calls, 10) })

	if a.Len() != 2 {
		t.Fatalf("Len = %d, want 2", a.Len())
	}
	a.Fire()
	if len(calls) != 2 || calls[0] != 10 || calls[1] != 2 {
		t.Errorf("calls = %v, want [10 2]", calls)
	}

	a.Unsubscribe(1)
	a.Unsubscribe(99)
	calls = nil
	a.Fire()
	if len(calls) != 1 || calls[0] != 2 {
		t.Errorf("calls = %v, want [2]", calls)
	}
}

func TestAfterLayoutUnsubscribeWhileFiring(t *testing.T) {
	var a AfterLayout
	var calls []int
	a.Subscribe(1, func() {
		calls = append(calls, 1)
		a.Unsubscribe(1)
	})
	a.Subscribe(2, func() { calls = append(calls, 2) })
	a.Subscribe(3, func() { calls = append(calls, 3) })

	a.Fire()
	if len(calls) != 3 {
		t.Errorf("calls = %v, want every callback once", calls)
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
}

func TestHostSubscribesToAfterLayout(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	if s.AfterLayout().Len() != 1 {
		t.Fatalf("subscribers = %d, want 1", s.AfterLayout().Len())
	}
	h.Disable()
	if s.AfterLayout().Len() != 0 {
		t.Errorf("subscribers = %d after Disable, want 0", s.AfterLayout().Len())
	}
}

func TestStepRebuildsBeforeInjecting(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 5)
	h.SetColor("TintColor", Color{R: 0.5, A: 1})

	s.Step(0)
	m := h.Node().RenderMaterial()
	if m == h.Node().Material {
		t.Fatal("node should render a derived instance after one step")
	}
	assertNear(t, "Speed", m.Float("Speed"), 5)
	assertNear(t, "TintColor.R", m.Color("TintColor").R, 0.5)
	if h.IsDirty() || h.shouldRebuild {
		t.Error("host should be clean after a step")
	}
}

func TestStepInjectsOnlyWhenDirty(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 5)
	s.Step(0)
	m := h.Node().RenderMaterial()
	writes := m.Writes()

	s.Step(0)
	if m.Writes() != writes {
		t.Errorf("writes = %d, want %d (clean host)", m.Writes(), writes)
	}

	h.SetFloat("Speed", 6)
	s.Step(0)
	if m.Writes() == writes {
		t.Error("dirty host should inject")
	}
}

func TestSceneEmitsInjectionEvents(t *testing.T) {
	s, _ := newTestScene()
	rec := &eventRecorder{}
	s.SetEntityStore(rec)
	h := newHostedSprite(s, "glow", newTestMaterial("base"))
	h.SetFloat("Speed", 1)
	h.SetFloat("Amount", 0.2)

	s.Step(0)
	s.Step(0)
	if len(rec.events) != 1 {
		t.Fatalf("events = %d, want 1", len(rec.events))
	}
	e := rec.events[0]
	if e.HostID != h.ID() || e.NodeID != h.Node().ID || e.NodeName != "glow" || e.Parameters != 2 {
		t.Errorf("event = %+v", e)
	}
}

func TestStepSkipsInvisibleNodes(t *testing.T) {
	s, _ := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.Node().Visible = false
	h.SetFloat("Speed", 5)

	s.Step(0)
	if h.Node().RenderMaterial() != h.Node().Material {
		t.Error("invisible node should not resolve an instance")
	}
	if s.Cache().Len() != 0 {
		t.Errorf("cache Len = %d, want 0", s.Cache().Len())
	}
}

func TestSceneDispose(t *testing.T) {
	s, b := newTestScene()
	h1 := newHostedSprite(s, "a", newTestMaterial("base"))
	h2 := newHostedSprite(s, "b", newTestMaterial("base"))
	h1.SetFloat("Speed", 1)
	h2.SetFloat("Speed", 2)
	s.AddTweener(NewTweener(h1))
	s.Step(0)

	s.Dispose()
	if h1.IsEnabled() || h2.IsEnabled() {
		t.Error("hosts should be disabled")
	}
	if s.Cache().Len() != 0 || b.destroys != b.clones {
		t.Errorf("cache Len = %d, clones %d destroys %d", s.Cache().Len(), b.clones, b.destroys)
	}
	if len(s.Tweeners()) != 0 || s.AfterLayout().Len() != 0 {
		t.Error("tweeners and callbacks should be cleared")
	}
}

func TestCacheClearForcesResolve(t *testing.T) {
	s, b := newTestScene()
	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 3)
	s.Step(0)

	s.Cache().Clear()
	s.Step(0)
	if b.clones != 2 {
		t.Errorf("clones = %d, want 2", b.clones)
	}
	m := h.Node().RenderMaterial()
	if m.IsDisposed() || m == h.Node().Material {
		t.Fatal("node should hold a fresh instance")
	}
	assertNear(t, "Speed", m.Float("Speed"), 3)
}

func TestSceneDebugStep(t *testing.T) {
	s, _ := newTestScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	h := newHostedSprite(s, "a", newTestMaterial("base"))
	h.SetFloat("Speed", 3)

	out := captureStderr(t, func() { s.Step(0) })
	if s.stats.hosts != 1 || s.stats.resolved != 1 || s.stats.injections != 1 {
		t.Errorf("stats = %+v", s.stats)
	}
	if !containsAll(out, "[matprop] tween:", "injections: 1") {
		t.Errorf("debug output = %q", out)
	}
}
