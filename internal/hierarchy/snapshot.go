package hierarchy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// snapshotElement is the capture format: a nested JSON tree, one object per
// element. Pointer fields distinguish absent from zero-valued.
type snapshotElement struct {
	ClassName   *string           `json:"class_name,omitempty"`
	Visible     bool              `json:"visible"`
	Important   bool              `json:"important"`
	ContentDesc string            `json:"content_description,omitempty"`
	Text        *string           `json:"text,omitempty"`
	Children    []snapshotElement `json:"children,omitempty"`
}

// ReadSnapshot decodes a captured hierarchy from its JSON form. Condensed
// element IDs are assigned in depth-first preorder, so re-reading the same
// snapshot always yields the same IDs.
func ReadSnapshot(r io.Reader) (*Hierarchy, error) {
	var root snapshotElement
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	h := &Hierarchy{}
	h.root = addElement(h, &root, NoElement)
	return h, nil
}

// ReadSnapshotFile loads a snapshot from a JSON file on disk.
func ReadSnapshotFile(path string) (*Hierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

func addElement(h *Hierarchy, se *snapshotElement, parentID int64) *Element {
	e := &Element{
		id:            int64(len(h.elements)),
		parentID:      parentID,
		visibleToUser: se.Visible,
		important:     se.Important,
		contentDesc:   se.ContentDesc,
		h:             h,
	}
	if se.ClassName != nil {
		e.className = *se.ClassName
		e.hasClassName = true
	}
	if se.Text != nil {
		e.text = *se.Text
		e.hasText = true
	}
	h.elements = append(h.elements, e)
	for i := range se.Children {
		child := addElement(h, &se.Children[i], e.id)
		e.childIDs = append(e.childIDs, child.id)
	}
	return e
}
