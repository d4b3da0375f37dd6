package checks

import (
	"fmt"

	"a11ycheck/internal/catalog"
	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/hierarchy"
	"a11ycheck/internal/kinds"
)

// Category groups checks by the kind of accessibility concern they cover.
type Category int

const (
	CategoryImplementation Category = iota + 1
	CategoryContentLabeling
	CategoryTouchTargetSize
	CategoryLowContrast
)

func (c Category) String() string {
	switch c {
	case CategoryImplementation:
		return "IMPLEMENTATION"
	case CategoryContentLabeling:
		return "CONTENT_LABELING"
	case CategoryTouchTargetSize:
		return "TOUCH_TARGET_SIZE"
	case CategoryLowContrast:
		return "LOW_CONTRAST"
	default:
		return fmt.Sprintf("CATEGORY(%d)", int(c))
	}
}

// Parameters carries optional evaluation tuning shared by all checks in one
// run. Checks must treat it as read-only; nil means defaults everywhere.
type Parameters struct {
	// ExtraAllowedClassPrefixes extends the class-name allow-list with
	// application-specific UI packages.
	ExtraAllowedClassPrefixes []string `mapstructure:"extra_allowed_class_prefixes"`
}

// Check is the contract every rule implements.
//
// Checks are stateless and keep no data between invocations; Evaluate must
// not mutate the snapshot and may run concurrently over different snapshots
// or subtrees. Result IDs are scoped to the check's kind, and the check must
// be able to render a message for every result ID it can emit.
type Check interface {
	// Kind is the stable identifier for this check, used as a registry
	// lookup key and as the serialized discriminator for its results.
	Kind() kinds.Kind

	Category() Category

	// Title renders the check's display title for a locale.
	Title(cat catalog.Catalog, locale string) (string, error)

	// Evaluate examines the ordered elements under fromRoot (the whole
	// hierarchy when fromRoot is nil) and returns its findings in element
	// order.
	Evaluate(h *hierarchy.Hierarchy, fromRoot *hierarchy.Element, p *Parameters) []checkresult.Result

	// MessageForResult renders the full explanation for one result ID and
	// its metadata. Asking for an ID the check never produces returns an
	// *UnsupportedResultIDError.
	MessageForResult(cat catalog.Catalog, locale string, resultID int32, md *checkresult.Metadata) (string, error)

	// ShortMessageForResult is MessageForResult with abbreviated text.
	ShortMessageForResult(cat catalog.Catalog, locale string, resultID int32, md *checkresult.Metadata) (string, error)
}

// UnsupportedResultIDError reports a request to render a result ID the check
// does not define. This is a programming error in the caller or a mismatch
// between builds, not a user input problem.
type UnsupportedResultIDError struct {
	Check    string
	ResultID int32
}

func (e *UnsupportedResultIDError) Error() string {
	return fmt.Sprintf("check %q does not define result id %d", e.Check, e.ResultID)
}

// MissingMetadataError reports that rendering a result required metadata the
// result did not carry. A check only emits IDs whose metadata it attached
// itself, so this indicates a contract violation, typically a decode of a
// message produced by an incompatible build.
type MissingMetadataError struct {
	Check    string
	ResultID int32
	Key      string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("check %q result id %d requires metadata key %q", e.Check, e.ResultID, e.Key)
}
