package checkresult

import (
	"fmt"
	"hash/fnv"

	"a11ycheck/internal/hierarchy"
	"a11ycheck/internal/kinds"
)

// Classification is the fixed severity/status attached to a Result.
type Classification int32

const (
	// ClassificationError indicates a defect that must be fixed.
	ClassificationError Classification = 1
	// ClassificationWarning indicates a likely defect worth review.
	ClassificationWarning Classification = 2
	// ClassificationInfo carries advisory detail.
	ClassificationInfo Classification = 3
	// ClassificationNotRun records that a check did not apply to an element.
	ClassificationNotRun Classification = 4
	// ClassificationSuppressed marks a result muted by configuration.
	ClassificationSuppressed Classification = 5
)

// Valid reports whether c is one of the defined classifications.
func (c Classification) Valid() bool {
	return c >= ClassificationError && c <= ClassificationSuppressed
}

func (c Classification) String() string {
	switch c {
	case ClassificationError:
		return "ERROR"
	case ClassificationWarning:
		return "WARNING"
	case ClassificationInfo:
		return "INFO"
	case ClassificationNotRun:
		return "NOT_RUN"
	case ClassificationSuppressed:
		return "SUPPRESSED"
	default:
		return fmt.Sprintf("CLASSIFICATION(%d)", int32(c))
	}
}

// ParseClassification maps the string form back to a Classification.
func ParseClassification(s string) (Classification, error) {
	switch s {
	case "ERROR":
		return ClassificationError, nil
	case "WARNING":
		return ClassificationWarning, nil
	case "INFO":
		return ClassificationInfo, nil
	case "NOT_RUN":
		return ClassificationNotRun, nil
	case "SUPPRESSED":
		return ClassificationSuppressed, nil
	default:
		return 0, fmt.Errorf("unknown classification %q", s)
	}
}

// Result is one finding from one check about one element. Result IDs are
// scoped to the producing check kind: the same integer means different
// things for different checks. The element is referenced by condensed ID
// only, so a Result stays valid after its snapshot is discarded.
type Result struct {
	checkKind      kinds.Kind
	classification Classification
	elementID      int64
	resultID       int32
	metadata       *Metadata
}

// New builds a Result. The metadata, if any, is cloned so the Result owns
// its copy; pass hierarchy.NoElement for results about the whole hierarchy.
func New(checkKind kinds.Kind, c Classification, elementID int64, resultID int32, md *Metadata) Result {
	return Result{
		checkKind:      checkKind,
		classification: c,
		elementID:      elementID,
		resultID:       resultID,
		metadata:       md.Clone(),
	}
}

func (r Result) CheckKind() kinds.Kind { return r.checkKind }

func (r Result) Classification() Classification { return r.classification }

// ElementID returns the condensed ID of the element this result concerns,
// or hierarchy.NoElement.
func (r Result) ElementID() int64 { return r.elementID }

// ResultID is the check-scoped identifier for this result's condition.
func (r Result) ResultID() int32 { return r.resultID }

// Metadata returns the attached metadata, or nil. Callers must treat it as
// read-only.
func (r Result) Metadata() *Metadata { return r.metadata }

// Element resolves the subject element in the given hierarchy. This is a
// lookup only; the Result itself holds no reference into the snapshot.
func (r Result) Element(h *hierarchy.Hierarchy) (*hierarchy.Element, bool) {
	if h == nil || r.elementID == hierarchy.NoElement {
		return nil, false
	}
	return h.ElementByID(r.elementID)
}

// WithClassification returns a copy reclassified to c; everything else,
// including metadata identity, is preserved.
func (r Result) WithClassification(c Classification) Result {
	r.classification = c
	return r
}

// Clone returns a copy that owns its own metadata.
func (r Result) Clone() Result {
	r.metadata = r.metadata.Clone()
	return r
}

func (r Result) Equal(o Result) bool {
	return r.checkKind == o.checkKind &&
		r.classification == o.classification &&
		r.elementID == o.elementID &&
		r.resultID == o.resultID &&
		r.metadata.Equal(o.metadata)
}

// Hash is consistent with Equal and stable across processes.
func (r Result) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d\x00%s\x00%d\x00%d\x00%d\x00",
		r.checkKind.Class(), r.checkKind.Name(), r.classification, r.elementID, r.resultID)
	return h.Sum64() ^ r.metadata.Hash()
}

func (r Result) String() string {
	return fmt.Sprintf("[%s] %s id=%d element=%d %s",
		r.classification, r.checkKind.Name(), r.resultID, r.elementID, r.metadata)
}
