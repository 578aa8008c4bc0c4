package matprop

// NodeType distinguishes how a Node takes part in material resolution.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // renders a quad with its material
	NodeTypeSubMesh                   // part of a composite renderable; its host follows the parent's
	NodeTypeBinding                   // hidden holder of a LiveBinding
)

// String returns the lowercase name of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeSprite:
		return "sprite"
	case NodeTypeSubMesh:
		return "submesh"
	case NodeTypeBinding:
		return "binding"
	default:
		return "unknown"
	}
}

// --- ID counter ---

// nodeIDCounter is a plain counter; matprop is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the scene graph element a Host attaches to. A single flat struct
// is used for all node types.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Placement and size in screen pixels (Sprite and SubMesh).
	X, Y          float64
	Width, Height float64

	Visible bool

	// Material is the base material. The node renders with the host's
	// resolved instance when one exists.
	Material       *Material
	renderMaterial *Material
	materialDirty  bool

	binding *LiveBinding
	host    *Host

	// Metadata
	UserData any

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Visible = true
	n.materialDirty = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a w x h quad drawn with mat.
func NewSprite(name string, mat *Material, w, h float64) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Material: mat, Width: w, Height: h}
	nodeDefaults(n)
	return n
}

// NewSubMesh creates a sub-mesh of a composite renderable. Added under a
// node with a Host, it receives a satellite host on the next rebuild.
func NewSubMesh(name string, mat *Material, w, h float64) *Node {
	n := &Node{Name: name, Type: NodeTypeSubMesh, Material: mat, Width: w, Height: h}
	nodeDefaults(n)
	return n
}

func newBindingNode(b *LiveBinding) *Node {
	n := &Node{Name: "Material." + b.name, Type: NodeTypeBinding, binding: b}
	nodeDefaults(n)
	n.Visible = false
	n.materialDirty = false
	return n
}

// Host returns the host attached to this node, or nil.
func (n *Node) Host() *Host { return n.host }

// Binding returns the LiveBinding held by a binding node, or nil.
func (n *Node) Binding() *LiveBinding { return n.binding }

// RenderMaterial returns the material the node was last resolved to draw
// with. Before the first resolution this is the base material.
func (n *Node) RenderMaterial() *Material {
	if n.renderMaterial != nil && !n.renderMaterial.IsDisposed() {
		return n.renderMaterial
	}
	return n.Material
}

// SetMaterial replaces the base material and schedules a new resolution.
// A host on the node rebuilds so unresolved parameters pick up the new
// material's declarations.
func (n *Node) SetMaterial(m *Material) {
	if n.Material == m {
		return
	}
	n.Material = m
	n.materialDirty = true
	if n.host != nil {
		n.host.authority().scheduleRebuild()
		n.host.MarkDirty()
	}
}

// activeInHierarchy reports whether the node and all its ancestors are visible.
func (n *Node) activeInHierarchy() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible || p.disposed {
			return false
		}
	}
	return true
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("matprop: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("matprop: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.detachChild(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childAdded(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("matprop: child's parent is not this node")
	}
	n.detachChild(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.detachChild(n.children[len(n.children)-1])
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// detachChild unlinks child and tells the hosts involved.
func (n *Node) detachChild(child *Node) {
	n.removeChildByPtr(child)
	child.Parent = nil
	child.materialDirty = true
	if child.Type == NodeTypeSubMesh && n.host != nil {
		n.host.scheduleRebuild()
	}
	if sat := child.host; sat != nil && sat.parent != nil && sat.parent.node == n {
		sat.parent.removeChild(sat)
		sat.parent = nil
		sat.MarkDirty()
	}
}

// childAdded schedules a rebuild on the host that must adopt child.
func (n *Node) childAdded(child *Node) {
	child.materialDirty = true
	if n.host == nil {
		return
	}
	switch child.Type {
	case NodeTypeSubMesh:
		n.host.scheduleRebuild()
	case NodeTypeBinding:
		if child.binding != nil && child.binding.host != n.host {
			n.host.scheduleRebuild()
		}
	}
}

// --- Disposal ---

// Dispose destroys the attached host and any binding, removes this node
// from its parent, marks it as disposed, and recursively disposes all
// descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if n.host != nil {
		n.host.Destroy()
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	if n.host != nil {
		n.host.Destroy()
	}
	if b := n.binding; b != nil {
		b.detach()
		b.node = nil
		n.binding = nil
	}
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Material = nil
	n.renderMaterial = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// walk visits n and its descendants depth first.
func walk(n *Node, fn func(*Node)) {
	fn(n)
	for i := 0; i < len(n.children); i++ {
		walk(n.children[i], fn)
	}
}
