package hierarchy

// Builder assembles a Hierarchy programmatically. It exists for callers that
// construct snapshots from sources other than the JSON capture format, and
// for tests.
type Builder struct {
	h *Hierarchy
}

// ElementSpec describes one element to add.
type ElementSpec struct {
	Visible     bool
	Important   bool
	ContentDesc string

	// ClassName is recorded only when HasClassName is true; this preserves
	// the distinction between a missing and an empty class name.
	ClassName    string
	HasClassName bool

	Text    string
	HasText bool
}

func NewBuilder() *Builder {
	return &Builder{h: &Hierarchy{}}
}

// AddElement appends an element under parent (nil means this is the root)
// and returns it. The first element added must be the root.
func (b *Builder) AddElement(parent *Element, spec ElementSpec) *Element {
	parentID := NoElement
	if parent != nil {
		parentID = parent.id
	}
	e := &Element{
		id:            int64(len(b.h.elements)),
		parentID:      parentID,
		visibleToUser: spec.Visible,
		important:     spec.Important,
		contentDesc:   spec.ContentDesc,
		className:     spec.ClassName,
		hasClassName:  spec.HasClassName,
		text:          spec.Text,
		hasText:       spec.HasText,
		h:             b.h,
	}
	b.h.elements = append(b.h.elements, e)
	if parent == nil {
		b.h.root = e
	} else {
		parent.childIDs = append(parent.childIDs, e.id)
	}
	return e
}

// Build returns the assembled hierarchy. The builder must not be reused.
func (b *Builder) Build() *Hierarchy {
	return b.h
}
