package matprop

import "fmt"

// hostIDCounter is a plain counter; matprop is single-threaded.
var hostIDCounter uint32

func nextHostID() uint32 {
	hostIDCounter++
	return hostIDCounter
}

// Host injects a set of parameter overrides into the material of one
// renderable node. It resolves a shared derived material through the
// scene's MaterialCache and writes its parameter values into that instance
// once per step, only when something changed.
//
// A Host attached to a sub-mesh of a composite renderable is a satellite:
// its parameters, sharing group, and rebuild scheduling all come from its
// parent Host.
type Host struct {
	// ResetOnEnable resets every parameter to the base material's value when
	// the host is enabled.
	ResetOnEnable bool

	id      uint32
	node    *Node
	scene   *Scene
	enabled bool

	animatable     bool
	sharingGroupID uint32
	set            *ParameterSet

	parent   *Host
	children []*Host

	dirty         bool
	shouldRebuild bool

	material     *Material
	materialKey  Hash128
	resolvedHash uint64

	injectHook func()
	injections int
	destroyed  bool
}

// NewHost attaches a new host to node. Hosts start animatable and disabled;
// call Enable to take part in a scene's update.
// Panics if node is nil or already has a host.
func NewHost(node *Node) *Host {
	if node == nil {
		panic("matprop: cannot attach host to nil node")
	}
	if node.host != nil {
		panic(fmt.Sprintf("matprop: node %q already has a host", node.Name))
	}
	h := &Host{
		id:            nextHostID(),
		node:          node,
		animatable:    true,
		set:           NewParameterSet(),
		dirty:         true,
		shouldRebuild: true,
	}
	node.host = h
	return h
}

// ID returns the host identity used in unshared cache keys.
func (h *Host) ID() uint32 { return h.id }

// Node returns the node this host is attached to.
func (h *Host) Node() *Node { return h.node }

// Parent returns the host this satellite delegates to, or nil.
func (h *Host) Parent() *Host { return h.parent }

// Children returns the satellite hosts. The returned slice MUST NOT be mutated.
func (h *Host) Children() []*Host { return h.children }

// IsEnabled reports whether the host is enabled in a scene.
func (h *Host) IsEnabled() bool { return h.enabled }

// IsDirty reports whether parameter values are waiting to be injected.
func (h *Host) IsDirty() bool { return h.dirty }

// IsDestroyed reports whether Destroy has been called.
func (h *Host) IsDestroyed() bool { return h.destroyed }

// authority returns the host whose parameters this host uses.
func (h *Host) authority() *Host {
	a := h
	for a.parent != nil {
		a = a.parent
	}
	return a
}

// Animatable reports whether parameters are mirrored on LiveBindings.
func (h *Host) Animatable() bool { return h.authority().animatable }

// SetAnimatable toggles LiveBinding mirroring. Bindings are created or
// destroyed on the next rebuild.
func (h *Host) SetAnimatable(v bool) {
	if h.animatable == v {
		return
	}
	h.animatable = v
	h.scheduleRebuild()
	h.MarkDirty()
}

// SharingGroupID returns the effective sharing group. Zero means the host
// gets its own material instance.
func (h *Host) SharingGroupID() uint32 {
	if h.parent != nil {
		return h.parent.SharingGroupID()
	}
	return h.sharingGroupID
}

// SetSharingGroupID sets the sharing group. Hosts with the same non-zero
// group and base material share one material instance.
func (h *Host) SetSharingGroupID(id uint32) {
	if h.sharingGroupID == id {
		return
	}
	h.sharingGroupID = id
	h.setMaterialDirty()
	h.MarkDirty()
}

// Material returns the material the node currently renders with: the
// resolved instance if there is one, the base material otherwise.
func (h *Host) Material() *Material {
	if h.node == nil {
		return nil
	}
	if m := h.node.renderMaterial; m != nil && !m.IsDisposed() {
		return m
	}
	return h.node.Material
}

// DefaultMaterial returns the node's base material, without overrides.
func (h *Host) DefaultMaterial() *Material {
	if h.node == nil {
		return nil
	}
	return h.node.Material
}

// Parameters rebuilds if needed and returns the effective parameters.
// The returned slice MUST NOT be mutated.
func (h *Host) Parameters() []*Parameter {
	a := h.authority()
	a.RebuildIfNeeded()
	return a.set.All()
}

// Get returns the effective parameter named name, or nil.
func (h *Host) Get(name string) *Parameter {
	return h.authority().set.Get(name)
}

// --- Setters ---

// SetColor sets a color parameter, creating it if absent.
func (h *Host) SetColor(name string, v Color) {
	h.getOrAdd(name, PropertyColor).SetColor(v)
}

// SetFloat sets a float parameter, creating it if absent.
func (h *Host) SetFloat(name string, v float64) {
	h.getOrAdd(name, PropertyFloat).SetFloat(v)
}

// SetInt sets an int parameter, creating it if absent.
func (h *Host) SetInt(name string, v int) {
	h.getOrAdd(name, PropertyInt).SetInt(v)
}

// SetVector sets a vector parameter, creating it if absent.
func (h *Host) SetVector(name string, v Vec4) {
	h.getOrAdd(name, PropertyVector).SetVector(v)
}

// SetTexture sets a texture parameter, creating it if absent.
func (h *Host) SetTexture(name string, v *Texture) {
	h.getOrAdd(name, PropertyTexture).SetTexture(v)
}

// getOrAdd returns the named parameter, creating it with the type the
// material declares for name (when compatible with kind) and the
// material's value as its default.
func (h *Host) getOrAdd(name string, kind PropertyType) *Parameter {
	a := h.authority()
	if p := a.set.Get(name); p != nil {
		return p
	}

	mat := a.DefaultMaterial()
	typ := kind
	if mat.Valid() {
		if sp, ok := mat.Layout().Lookup(name); ok && kind.compatible(sp.Type) {
			typ = sp.Type
		}
	}

	p := newHostParameter(a, name, typ)
	if a.animatable {
		p.bind(p.newBinding(a))
	}
	p.ResetToDefault(mat)
	_ = a.set.Add(p)
	a.scheduleRebuild()
	return p
}

// RemoveProperty removes the named parameter.
func (h *Host) RemoveProperty(name string) {
	a := h.authority()
	if a.set.Remove(name) {
		a.scheduleRebuild()
		a.MarkDirty()
	}
}

// RemoveAllProperties removes every parameter.
func (h *Host) RemoveAllProperties() {
	a := h.authority()
	a.set.Clear()
	a.scheduleRebuild()
	a.MarkDirty()
}

// ResetPropertiesToDefault rebuilds immediately, resets every parameter to
// the base material's value, and forces a fresh material resolution.
func (h *Host) ResetPropertiesToDefault() {
	a := h.authority()
	mat := a.DefaultMaterial()
	a.shouldRebuild = true
	a.RebuildIfNeeded()
	a.set.ResetToDefault(mat)
	a.setMaterialDirty()
}

// --- First-parameter shortcuts ---

// IntValue returns the first parameter's int value, or 0.
func (h *Host) IntValue() int {
	if ps := h.Parameters(); len(ps) > 0 {
		return ps[0].Int()
	}
	return 0
}

// SetIntValue sets the first parameter's int value. No-op without parameters.
func (h *Host) SetIntValue(v int) {
	if ps := h.Parameters(); len(ps) > 0 {
		ps[0].SetInt(v)
	}
}

// FloatValue returns the first parameter's float value, or 0.
func (h *Host) FloatValue() float64 {
	if ps := h.Parameters(); len(ps) > 0 {
		return ps[0].Float()
	}
	return 0
}

// SetFloatValue sets the first parameter's float value. No-op without parameters.
func (h *Host) SetFloatValue(v float64) {
	if ps := h.Parameters(); len(ps) > 0 {
		ps[0].SetFloat(v)
	}
}

// ColorValue returns the first parameter's color value, or white.
func (h *Host) ColorValue() Color {
	if ps := h.Parameters(); len(ps) > 0 {
		return ps[0].Color()
	}
	return ColorWhite
}

// SetColorValue sets the first parameter's color value. No-op without parameters.
func (h *Host) SetColorValue(v Color) {
	if ps := h.Parameters(); len(ps) > 0 {
		ps[0].SetColor(v)
	}
}

// VectorValue returns the first parameter's vector value, or zero.
func (h *Host) VectorValue() Vec4 {
	if ps := h.Parameters(); len(ps) > 0 {
		return ps[0].Vector()
	}
	return Vec4{}
}

// SetVectorValue sets the first parameter's vector value. No-op without parameters.
func (h *Host) SetVectorValue(v Vec4) {
	if ps := h.Parameters(); len(ps) > 0 {
		ps[0].SetVector(v)
	}
}

// TextureValue returns the first parameter's texture, or nil.
func (h *Host) TextureValue() *Texture {
	if ps := h.Parameters(); len(ps) > 0 {
		return ps[0].Texture()
	}
	return nil
}

// SetTextureValue sets the first parameter's texture. No-op without parameters.
func (h *Host) SetTextureValue(v *Texture) {
	if ps := h.Parameters(); len(ps) > 0 {
		ps[0].SetTexture(v)
	}
}

// --- Dirty state ---

// MarkDirty flags this host and every satellite for injection.
func (h *Host) MarkDirty() {
	h.dirty = true
	for _, c := range h.children {
		c.MarkDirty()
	}
}

// scheduleRebuild defers a structural rebuild to the next rebuild pass.
func (h *Host) scheduleRebuild() {
	h.shouldRebuild = true
}

// setMaterialDirty asks the scene to resolve this node's material (and the
// satellites') again.
func (h *Host) setMaterialDirty() {
	if h.node != nil {
		h.node.materialDirty = true
	}
	for _, c := range h.children {
		c.setMaterialDirty()
	}
}

// isActiveAndEnabled reports whether the host is enabled on a visible node.
func (h *Host) isActiveAndEnabled() bool {
	return h.enabled && h.node != nil && h.node.activeInHierarchy()
}

// canInject reports whether overrides apply: the host (or the parent it
// delegates to) is active and has parameters.
func (h *Host) canInject() bool {
	if h.parent != nil {
		return h.parent.canInject()
	}
	return h.isActiveAndEnabled() && h.set.Len() > 0
}

// --- Rebuild ---

// RebuildIfNeeded applies pending structural changes. Satellites delegate
// to their parent. The rebuild rescans the node's children: LiveBindings
// are rebound by id (orphans destroyed) and sub-mesh children get
// satellite hosts. Must run before InjectIfNeeded in the same step.
func (h *Host) RebuildIfNeeded() {
	if h.parent != nil {
		h.parent.RebuildIfNeeded()
		return
	}
	if !h.shouldRebuild {
		return
	}
	h.shouldRebuild = false
	h.MarkDirty()
	materialDirty := false

	previous := h.children
	h.children = nil
	if h.node != nil {
		for i := len(h.node.children) - 1; i >= 0; i-- {
			if i >= len(h.node.children) {
				continue
			}
			c := h.node.children[i]

			if c.Type == NodeTypeSubMesh {
				h.adoptSatellite(c)
				materialDirty = true
				continue
			}

			b := c.binding
			if b == nil || b.disposed {
				continue
			}
			if h.animatable && h.rebind(b) {
				continue
			}
			b.Destroy()
		}
	}
	for _, old := range previous {
		if old.parent == h && !containsHost(h.children, old) {
			old.parent = nil
		}
	}

	h.set.rebuild(h, true, true)

	if h.set.paramHash() != h.resolvedHash {
		materialDirty = true
	}
	if materialDirty {
		h.setMaterialDirty()
	}
}

// rebind links b to the parameter with the same id and kind. A parameter
// already holding another live binding keeps it; b is then an orphan.
func (h *Host) rebind(b *LiveBinding) bool {
	p := h.set.ByID(b.id)
	if p == nil || p.typ == PropertyUndefined || bindingKind(p.typ) != b.kind {
		return false
	}
	if cur := p.Binding(); cur != nil && cur != b {
		return false
	}
	p.bind(b)
	b.setHost(h)
	h.dirty = true
	return true
}

// adoptSatellite makes the host of sub-mesh node n a satellite of h,
// creating the host if the node has none.
func (h *Host) adoptSatellite(n *Node) {
	sat := n.host
	if sat == nil {
		sat = NewHost(n)
	}
	if sat == h {
		return
	}
	sat.parent = h
	h.children = append(h.children, sat)
	if h.enabled && !sat.enabled {
		sat.Enable(h.scene)
	}
	sat.MarkDirty()
}

func containsHost(hosts []*Host, h *Host) bool {
	for _, c := range hosts {
		if c == h {
			return true
		}
	}
	return false
}

func (h *Host) removeChild(c *Host) {
	for i, x := range h.children {
		if x == c {
			copy(h.children[i:], h.children[i+1:])
			h.children[len(h.children)-1] = nil
			h.children = h.children[:len(h.children)-1]
			return
		}
	}
}

// --- Material resolution and injection ---

// GetMaterialInstance is called by the renderer when it resolves the
// node's material. It returns base unchanged when the host cannot inject,
// and otherwise the cached derived instance for base, this host's
// parameter set, and its sharing group. Repeat calls with an unchanged key
// return the held instance without touching the cache.
func (h *Host) GetMaterialInstance(base *Material) *Material {
	if !h.isActiveAndEnabled() || !base.Valid() || !h.canInject() || h.scene == nil {
		h.releaseMaterial()
		return base
	}

	a := h.authority()
	pHash := a.set.paramHash()
	a.resolvedHash = pHash

	groupID := h.SharingGroupID()
	var localID uint32
	if groupID == 0 {
		groupID = foldHash(pHash)
		localID = h.id
	}
	key := Hash128{A: base.ID(), B: groupID, C: localID}

	cache := h.scene.cache
	if cache.Valid(key, h.material) {
		return h.material
	}

	// The held instance is stale (or missing): fetch the new one before
	// releasing the old so a shared entry is not evicted and recreated.
	h.dirty = true
	m := cache.Get(key, base)
	h.releaseMaterial()
	h.material = m
	h.materialKey = key
	return m
}

// needsResolve reports whether the held instance is out of step with what
// GetMaterialInstance would return: an instance is held but overrides no
// longer apply, none is held while they do, or the cache dropped it.
func (h *Host) needsResolve() bool {
	if h.scene == nil {
		return false
	}
	want := h.isActiveAndEnabled() && h.canInject()
	if h.material == nil {
		return want
	}
	return !want || !h.scene.cache.Valid(h.materialKey, h.material)
}

// releaseMaterial drops the held cache reference, if still live.
func (h *Host) releaseMaterial() {
	if h.material == nil {
		return
	}
	if h.scene != nil && h.scene.cache.Valid(h.materialKey, h.material) {
		h.scene.cache.Release(h.materialKey)
	}
	h.material = nil
	h.materialKey = Hash128{}
}

// InjectIfNeeded writes every parameter into the held material instance
// and clears the dirty flag. It does nothing unless the host is dirty, can
// inject, and holds a live instance. Parameters the material does not
// declare are skipped. Reports whether a write pass happened.
func (h *Host) InjectIfNeeded() bool {
	if !h.dirty || !h.canInject() {
		return false
	}
	m := h.material
	if m == nil || m.IsDisposed() {
		return false
	}
	h.dirty = false

	params := h.authority().set.All()
	for _, p := range params {
		p.Inject(m)
	}
	h.injections++

	if h.scene != nil && h.scene.store != nil {
		h.scene.store.EmitEvent(InjectionEvent{
			HostID:     h.id,
			NodeID:     h.node.ID,
			NodeName:   h.node.Name,
			Parameters: len(params),
		})
	}
	return true
}

// --- Lifecycle ---

// Enable subscribes the host to s's after-layout callbacks and schedules a
// rebuild and a material resolution.
func (h *Host) Enable(s *Scene) {
	if h.destroyed {
		panic("matprop: Enable on destroyed host")
	}
	if s == nil {
		panic("matprop: cannot enable host without a scene")
	}
	if h.enabled {
		return
	}
	if h.scene != nil && h.scene != s {
		h.releaseMaterial()
	}
	h.scene = s
	h.enabled = true
	h.MarkDirty()
	h.setMaterialDirty()
	h.scheduleRebuild()
	if h.parent != nil && !containsHost(h.parent.children, h) {
		// Disable left the parent's child list; the parent's rebuild
		// adopts the satellite again.
		h.parent.scheduleRebuild()
	}

	if h.ResetOnEnable {
		h.ResetPropertiesToDefault()
	}

	if h.injectHook == nil {
		h.injectHook = func() {
			if h.InjectIfNeeded() && h.scene != nil {
				h.scene.stats.injections++
			}
		}
	}
	s.afterLayout.Subscribe(h.id, h.injectHook)
}

// Disable unsubscribes the host, releases its cache reference, and leaves
// its parent's dirty propagation.
func (h *Host) Disable() {
	if !h.enabled {
		return
	}
	h.scene.afterLayout.Unsubscribe(h.id)
	h.MarkDirty()
	h.setMaterialDirty()
	h.scheduleRebuild()
	h.releaseMaterial()
	h.enabled = false
	if h.parent != nil {
		h.parent.removeChild(h)
	}
}

// Destroy disables the host, destroys its LiveBindings, and detaches it
// from its node.
func (h *Host) Destroy() {
	if h.destroyed {
		return
	}
	h.Disable()

	if h.node != nil {
		for i := len(h.node.children) - 1; i >= 0; i-- {
			if i >= len(h.node.children) {
				continue
			}
			if b := h.node.children[i].binding; b != nil {
				b.Destroy()
			}
		}
	}
	for _, p := range h.set.All() {
		p.unbind()
		p.host = nil
	}
	for _, c := range h.children {
		if c.parent == h {
			c.parent = nil
		}
	}

	h.children = nil
	h.parent = nil
	h.material = nil
	h.scene = nil
	h.injectHook = nil
	if h.node != nil {
		h.node.host = nil
		h.node = nil
	}
	h.destroyed = true
}
