package checks

import (
	"fmt"
	"strings"

	"a11ycheck/internal/catalog"
	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/hierarchy"
	"a11ycheck/internal/kinds"
)

// Result IDs produced by ClassNameCheck.
const (
	// ClassNameResultNotVisible: the element is not visible to the user.
	ClassNameResultNotVisible int32 = 1
	// ClassNameResultNotImportant: the element is not important for accessibility.
	ClassNameResultNotImportant int32 = 2
	// ClassNameResultUnknown: the element carries no class name.
	ClassNameResultUnknown int32 = 3
	// ClassNameResultEmpty: the element's class name is present but empty.
	ClassNameResultEmpty int32 = 4
	// ClassNameResultNotSupported: the class name is outside the supported
	// UI packages.
	ClassNameResultNotSupported int32 = 5
)

// KeyClassName is the metadata key holding the offending class name on
// ClassNameResultNotSupported results.
const KeyClassName = "class_name"

// validUIPackagePrefixes are the class-name prefixes accessibility services
// are known to handle.
var validUIPackagePrefixes = []string{
	"android.app",
	"android.appwidget",
	"android.inputmethodservice",
	"android.support",
	"android.view",
	"android.webkit",
	"android.widget",
	"androidx",
}

// ClassNameCheck verifies that each element reports a class name the
// accessibility service can interpret.
type ClassNameCheck struct{}

var classNameKind = kinds.New("class-name", kinds.ClassCheck)

func (c *ClassNameCheck) Kind() kinds.Kind { return classNameKind }

func (c *ClassNameCheck) Category() Category { return CategoryImplementation }

func (c *ClassNameCheck) Title(cat catalog.Catalog, locale string) (string, error) {
	return cat.Lookup(locale, "check_title_class_name_not_supported")
}

// Evaluate emits at most one result per element: the short-circuiting
// applicability checks run in a fixed order and the first that fails decides
// the result.
func (c *ClassNameCheck) Evaluate(h *hierarchy.Hierarchy, fromRoot *hierarchy.Element, p *Parameters) []checkresult.Result {
	var results []checkresult.Result

	for _, el := range h.ElementsToEvaluate(fromRoot) {
		if !el.IsImportantForAccessibility() {
			results = append(results, checkresult.New(
				classNameKind, checkresult.ClassificationNotRun, el.ID(), ClassNameResultNotImportant, nil))
			continue
		}

		if !el.IsVisibleToUser() {
			results = append(results, checkresult.New(
				classNameKind, checkresult.ClassificationNotRun, el.ID(), ClassNameResultNotVisible, nil))
			continue
		}

		className, ok := el.AccessibilityClassName()
		if !ok {
			results = append(results, checkresult.New(
				classNameKind, checkresult.ClassificationNotRun, el.ID(), ClassNameResultUnknown, nil))
			continue
		}

		if className == "" {
			results = append(results, checkresult.New(
				classNameKind, checkresult.ClassificationWarning, el.ID(), ClassNameResultEmpty, nil))
			continue
		}

		if !hasAllowedPrefix(className, p) {
			md := checkresult.NewMetadata()
			if err := md.PutString(KeyClassName, className); err != nil {
				// Unreachable: the metadata was created one line up.
				panic(err)
			}
			results = append(results, checkresult.New(
				classNameKind, checkresult.ClassificationWarning, el.ID(), ClassNameResultNotSupported, md))
		}
	}
	return results
}

func hasAllowedPrefix(className string, p *Parameters) bool {
	for _, prefix := range validUIPackagePrefixes {
		if strings.HasPrefix(className, prefix) {
			return true
		}
	}
	if p != nil {
		for _, prefix := range p.ExtraAllowedClassPrefixes {
			if prefix != "" && strings.HasPrefix(className, prefix) {
				return true
			}
		}
	}
	return false
}

func (c *ClassNameCheck) MessageForResult(cat catalog.Catalog, locale string, resultID int32, md *checkresult.Metadata) (string, error) {
	switch resultID {
	case ClassNameResultNotVisible:
		return cat.Lookup(locale, "result_message_not_visible")
	case ClassNameResultNotImportant:
		return cat.Lookup(locale, "result_message_not_important_for_accessibility")
	case ClassNameResultUnknown:
		return cat.Lookup(locale, "result_message_class_name_is_unknown")
	case ClassNameResultEmpty:
		return cat.Lookup(locale, "result_message_class_name_is_empty")
	case ClassNameResultNotSupported:
		className, ok, err := md.GetString(KeyClassName)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", &MissingMetadataError{Check: classNameKind.Name(), ResultID: resultID, Key: KeyClassName}
		}
		format, err := cat.Lookup(locale, "result_message_class_name_not_supported_detail")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(format, className), nil
	default:
		return "", &UnsupportedResultIDError{Check: classNameKind.Name(), ResultID: resultID}
	}
}

func (c *ClassNameCheck) ShortMessageForResult(cat catalog.Catalog, locale string, resultID int32, md *checkresult.Metadata) (string, error) {
	switch resultID {
	case ClassNameResultNotVisible:
		return cat.Lookup(locale, "result_message_not_visible")
	case ClassNameResultNotImportant:
		return cat.Lookup(locale, "result_message_not_important_for_accessibility")
	case ClassNameResultUnknown:
		return cat.Lookup(locale, "result_message_class_name_is_unknown")
	case ClassNameResultEmpty, ClassNameResultNotSupported:
		return cat.Lookup(locale, "result_message_class_name_not_supported_brief")
	default:
		return "", &UnsupportedResultIDError{Check: classNameKind.Name(), ResultID: resultID}
	}
}

func init() {
	Register(&ClassNameCheck{})
}
