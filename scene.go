package matprop

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, injection events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InjectionEvent)
}

// InjectionEvent reports one injection pass of a Host into its material
// instance.
type InjectionEvent struct {
	HostID     uint32
	NodeID     uint32
	NodeName   string
	Parameters int
}

// AfterLayout is the post-layout callback list. Hosts subscribe on Enable
// and unsubscribe on Disable; the Scene fires it once per step, after
// material resolution and before the frame is drawn.
type AfterLayout struct {
	ids []uint32
	fns []func()
}

// Subscribe registers fn under id, replacing any callback already under id.
func (a *AfterLayout) Subscribe(id uint32, fn func()) {
	for i, x := range a.ids {
		if x == id {
			a.fns[i] = fn
			return
		}
	}
	a.ids = append(a.ids, id)
	a.fns = append(a.fns, fn)
}

// Unsubscribe removes the callback registered under id.
func (a *AfterLayout) Unsubscribe(id uint32) {
	for i, x := range a.ids {
		if x == id {
			a.ids = append(a.ids[:i], a.ids[i+1:]...)
			a.fns = append(a.fns[:i], a.fns[i+1:]...)
			return
		}
	}
}

// Fire calls every callback in subscription order. Callbacks may
// unsubscribe themselves or others while firing.
func (a *AfterLayout) Fire() {
	for i := 0; i < len(a.fns); i++ {
		id := a.ids[i]
		a.fns[i]()
		if i < len(a.ids) && a.ids[i] != id {
			i--
		}
	}
}

// Len returns the number of subscribers.
func (a *AfterLayout) Len() int { return len(a.ids) }

// Scene is the top-level object that owns the node tree, the material
// cache, the after-layout callbacks, and the automatic tweeners.
type Scene struct {
	// TimeScale multiplies dt for tweeners in UpdateScaled mode.
	TimeScale float64

	// ClearColor fills the screen before drawing. Nil leaves it untouched.
	ClearColor *Color

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	root  *Node
	store EntityStore
	debug bool

	cache       *MaterialCache
	afterLayout AfterLayout
	tweeners    []*Tweener

	script          *ScriptRunner
	screenshotQueue []string

	hostBuf  []*Host
	shaderOp ebiten.DrawRectShaderOptions
	stats    stepStats
}

// NewScene creates a new scene with a pre-created root container and a
// material cache on DefaultBackend.
func NewScene() *Scene {
	return NewSceneWithBackend(nil)
}

// NewSceneWithBackend creates a scene whose material cache clones and
// destroys instances through backend.
func NewSceneWithBackend(backend MaterialBackend) *Scene {
	return &Scene{
		TimeScale:     1,
		ScreenshotDir: "screenshots",
		root:          NewContainer("root"),
		cache:         NewMaterialCache(backend),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Cache returns the scene's material cache.
func (s *Scene) Cache() *MaterialCache {
	return s.cache
}

// AfterLayout returns the post-layout callback list.
func (s *Scene) AfterLayout() *AfterLayout {
	return &s.afterLayout
}

// Update advances the scene by one tick of 1/TPS seconds.
func (s *Scene) Update() {
	s.Step(1.0 / float64(ebiten.TPS()))
}

// Step runs one update pass: the attached script, automatic tweeners, the
// rebuild pass, the material resolution pass, then the after-layout
// callbacks that inject parameter values. Rebuild always completes before
// injection.
func (s *Scene) Step(dt float64) {
	var t0 time.Time
	s.stats = stepStats{}
	if s.debug {
		t0 = time.Now()
	}

	if s.script != nil {
		s.script.step(s)
	}

	s.updateTweeners(dt)

	if s.debug {
		s.stats.tweenTime = time.Since(t0)
		t0 = time.Now()
	}

	hosts := s.collectHosts()
	s.stats.hosts = len(hosts)
	for _, h := range hosts {
		if h.enabled {
			h.RebuildIfNeeded()
		}
		// resolveMaterials skips hidden subtrees, so their hosts
		// release here.
		if h.material != nil && !h.isActiveAndEnabled() {
			h.releaseMaterial()
			h.node.renderMaterial = nil
		}
	}

	if s.debug {
		s.stats.rebuildTime = time.Since(t0)
		t0 = time.Now()
	}

	s.resolveMaterials(s.root)

	if s.debug {
		s.stats.resolveTime = time.Since(t0)
		t0 = time.Now()
	}

	s.afterLayout.Fire()

	if s.debug {
		s.stats.injectTime = time.Since(t0)
		s.debugLog(s.stats)
	}
}

// collectHosts gathers the hosts of the tree into a reused buffer.
func (s *Scene) collectHosts() []*Host {
	s.hostBuf = s.hostBuf[:0]
	walk(s.root, func(n *Node) {
		if n.host != nil {
			s.hostBuf = append(s.hostBuf, n.host)
		}
	})
	return s.hostBuf
}

// resolveMaterials picks the material each visible renderable draws with.
// Nodes are resolved when flagged, and hosted nodes whenever the instance
// they hold no longer matches what they should hold.
func (s *Scene) resolveMaterials(n *Node) {
	if !n.Visible {
		return
	}
	if n.Type == NodeTypeSprite || n.Type == NodeTypeSubMesh {
		if n.materialDirty || (n.host != nil && n.host.needsResolve()) {
			n.materialDirty = false
			if n.host != nil {
				n.renderMaterial = n.host.GetMaterialInstance(n.Material)
			} else {
				n.renderMaterial = n.Material
			}
			s.stats.resolved++
		}
	}
	for i := 0; i < len(n.children); i++ {
		s.resolveMaterials(n.children[i])
	}
}

// AddTweener registers tw to be advanced by Step. Tweeners with
// RestartOnEnable start over.
func (s *Scene) AddTweener(tw *Tweener) {
	for _, x := range s.tweeners {
		if x == tw {
			return
		}
	}
	s.tweeners = append(s.tweeners, tw)
	if tw.RestartOnEnable {
		tw.Restart()
	}
}

// RemoveTweener stops advancing tw.
func (s *Scene) RemoveTweener(tw *Tweener) {
	for i, x := range s.tweeners {
		if x == tw {
			s.tweeners = append(s.tweeners[:i], s.tweeners[i+1:]...)
			return
		}
	}
}

// Tweeners returns the registered tweeners. The returned slice MUST NOT be mutated.
func (s *Scene) Tweeners() []*Tweener {
	return s.tweeners
}

func (s *Scene) updateTweeners(dt float64) {
	for _, tw := range s.tweeners {
		switch tw.UpdateMode {
		case UpdateScaled:
			tw.UpdateTime(dt * s.TimeScale)
		case UpdateUnscaled:
			tw.UpdateTime(dt)
		}
	}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, cache
// evictions are reported, and per-step stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// and cache operations (which lack a Scene pointer) can check it cheaply.
// Only valid with a single Scene.
var globalDebug bool

// Dispose disables every host in the tree and destroys every cached
// material instance.
func (s *Scene) Dispose() {
	for _, h := range s.collectHosts() {
		h.Disable()
	}
	s.tweeners = nil
	s.cache.Clear()
}
