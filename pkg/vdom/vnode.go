package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is the virtual DOM node.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes and event handlers
	Children []*VNode  // Child nodes
	Key      string    // Stable identity among siblings
	Text     string    // For KindText and KindRaw
	Comp     Component // For KindComponent
}

// Props holds attributes and event handlers.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for _, value := range v.Props {
		if _, ok := value.(Handler); ok {
			return true
		}
	}
	return false
}

// Walk calls fn for v and every descendant, depth first. Components are
// not expanded.
func (v *VNode) Walk(fn func(*VNode)) {
	if v == nil {
		return
	}
	fn(v)
	for _, child := range v.Children {
		child.Walk(fn)
	}
}

// Find returns the first node (depth first) for which match returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	var found *VNode
	v.Walk(func(n *VNode) {
		if found == nil && match(n) {
			found = n
		}
	})
	return found
}

// FindAll returns every node for which match returns true.
func (v *VNode) FindAll(match func(*VNode) bool) []*VNode {
	var found []*VNode
	v.Walk(func(n *VNode) {
		if match(n) {
			found = append(found, n)
		}
	})
	return found
}

// TextContent concatenates the text of v and its descendants.
func (v *VNode) TextContent() string {
	var out string
	v.Walk(func(n *VNode) {
		if n.Kind == KindText {
			out += n.Text
		}
	})
	return out
}
