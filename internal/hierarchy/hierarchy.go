// Package hierarchy models an immutable snapshot of a UI element tree,
// previously captured from a live interface. Checks consume it read-only.
package hierarchy

// NoElement is the element ID used by results that concern the hierarchy as
// a whole rather than a single element.
const NoElement int64 = -1

// Element is one node of a captured hierarchy. Elements are addressed by a
// condensed ID assigned in depth-first order at capture time; the ID is
// stable across serialization and is what results record, so holding a
// result never keeps the snapshot alive.
type Element struct {
	id       int64
	parentID int64
	childIDs []int64

	visibleToUser bool
	important     bool
	className     string
	hasClassName  bool
	contentDesc   string
	hasText       bool
	text          string

	h *Hierarchy
}

func (e *Element) ID() int64 { return e.id }

// IsVisibleToUser reports whether the element was visible at capture time.
// Snapshots that could not determine visibility record false.
func (e *Element) IsVisibleToUser() bool { return e.visibleToUser }

// IsImportantForAccessibility reports whether the element is surfaced to
// accessibility services.
func (e *Element) IsImportantForAccessibility() bool { return e.important }

// AccessibilityClassName returns the class name reported to accessibility
// services. ok is false when the snapshot carried no class name at all,
// which is distinct from a present-but-empty name.
func (e *Element) AccessibilityClassName() (name string, ok bool) {
	return e.className, e.hasClassName
}

// ContentDescription returns the element's content description, if any.
func (e *Element) ContentDescription() string { return e.contentDesc }

// Text returns the element's visible text. ok is false when none was captured.
func (e *Element) Text() (text string, ok bool) { return e.text, e.hasText }

func (e *Element) Parent() *Element {
	if e.parentID == NoElement {
		return nil
	}
	return e.h.elements[e.parentID]
}

func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.childIDs))
	for i, id := range e.childIDs {
		out[i] = e.h.elements[id]
	}
	return out
}

// Hierarchy is a complete captured element tree.
type Hierarchy struct {
	elements []*Element
	root     *Element
}

func (h *Hierarchy) Root() *Element { return h.root }

// ElementByID looks up an element by its condensed ID.
func (h *Hierarchy) ElementByID(id int64) (*Element, bool) {
	if id < 0 || id >= int64(len(h.elements)) {
		return nil, false
	}
	return h.elements[id], true
}

// Len returns the number of elements in the snapshot.
func (h *Hierarchy) Len() int { return len(h.elements) }

// ElementsToEvaluate returns the ordered sequence of elements a check should
// examine: a depth-first preorder walk from fromRoot, or from the hierarchy
// root when fromRoot is nil. The order is deterministic for a given snapshot.
func (h *Hierarchy) ElementsToEvaluate(fromRoot *Element) []*Element {
	start := fromRoot
	if start == nil {
		start = h.root
	}
	if start == nil {
		return nil
	}
	var out []*Element
	var walk func(e *Element)
	walk = func(e *Element) {
		out = append(out, e)
		for _, id := range e.childIDs {
			walk(h.elements[id])
		}
	}
	walk(start)
	return out
}
