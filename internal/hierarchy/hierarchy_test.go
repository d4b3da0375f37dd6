package hierarchy

import (
	"strings"
	"testing"
)

const sampleSnapshot = `{
  "class_name": "android.widget.LinearLayout",
  "visible": true,
  "important": true,
  "children": [
    {
      "class_name": "android.widget.TextView",
      "visible": true,
      "important": true,
      "text": "Hello"
    },
    {
      "visible": false,
      "important": false,
      "children": [
        {
          "class_name": "",
          "visible": true,
          "important": true
        }
      ]
    }
  ]
}`

func TestReadSnapshot(t *testing.T) {
	h, err := ReadSnapshot(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	if h.Len() != 4 {
		t.Fatalf("Expected 4 elements, got %d", h.Len())
	}

	root := h.Root()
	if root.ID() != 0 {
		t.Errorf("Expected root ID 0, got %d", root.ID())
	}
	name, ok := root.AccessibilityClassName()
	if !ok || name != "android.widget.LinearLayout" {
		t.Errorf("Unexpected root class name %q (ok=%v)", name, ok)
	}

	// Depth-first preorder: root, text view, container, empty-class child.
	seq := h.ElementsToEvaluate(nil)
	ids := make([]int64, len(seq))
	for i, e := range seq {
		ids[i] = e.ID()
	}
	want := []int64{0, 1, 2, 3}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Expected preorder %v, got %v", want, ids)
		}
	}

	// Element 2 has no class name at all; element 3 has a present-but-empty one.
	e2, _ := h.ElementByID(2)
	if _, ok := e2.AccessibilityClassName(); ok {
		t.Error("Expected element 2 to have no class name")
	}
	e3, _ := h.ElementByID(3)
	name, ok = e3.AccessibilityClassName()
	if !ok || name != "" {
		t.Errorf("Expected element 3 to have an empty class name, got %q (ok=%v)", name, ok)
	}
}

func TestElementsToEvaluateSubtree(t *testing.T) {
	h, err := ReadSnapshot(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	from, _ := h.ElementByID(2)
	seq := h.ElementsToEvaluate(from)
	if len(seq) != 2 {
		t.Fatalf("Expected 2 elements in subtree, got %d", len(seq))
	}
	if seq[0].ID() != 2 || seq[1].ID() != 3 {
		t.Errorf("Unexpected subtree order: %d, %d", seq[0].ID(), seq[1].ID())
	}
}

func TestElementByIDOutOfRange(t *testing.T) {
	h := NewBuilder().Build()
	if _, ok := h.ElementByID(0); ok {
		t.Error("Expected lookup in empty hierarchy to fail")
	}
	if _, ok := h.ElementByID(-5); ok {
		t.Error("Expected negative lookup to fail")
	}
}

func TestBuilderStructure(t *testing.T) {
	b := NewBuilder()
	root := b.AddElement(nil, ElementSpec{Visible: true, Important: true})
	child := b.AddElement(root, ElementSpec{Visible: true, Important: true, ClassName: "android.view.View", HasClassName: true})
	h := b.Build()

	if h.Len() != 2 {
		t.Fatalf("Expected 2 elements, got %d", h.Len())
	}
	if got, ok := h.ElementByID(child.ID()); !ok || got != child {
		t.Errorf("Expected lookup of %d to return the child", child.ID())
	}
	if child.Parent() != root {
		t.Error("Expected child parent to be root")
	}
	kids := root.Children()
	if len(kids) != 1 || kids[0] != child {
		t.Errorf("Unexpected children: %v", kids)
	}
	if root.Parent() != nil {
		t.Error("Expected root to have no parent")
	}
}
