// Package catalog provides the locale-keyed message table checks render
// their findings through. Checks never embed user-facing text; they ask the
// catalog for it, so the catalog is always passed in explicitly.
package catalog

import "fmt"

// Catalog resolves a message key for a locale to a display string.
type Catalog interface {
	Lookup(locale, key string) (string, error)
}

// MissingMessageError is returned when a catalog has no entry for a key.
type MissingMessageError struct {
	Locale string
	Key    string
}

func (e *MissingMessageError) Error() string {
	return fmt.Sprintf("no message for key %q in locale %q", e.Key, e.Locale)
}

// mapCatalog looks up messages in per-locale tables with a fallback locale
// for locales it has no table for.
type mapCatalog struct {
	fallback string
	tables   map[string]map[string]string
}

func (c *mapCatalog) Lookup(locale, key string) (string, error) {
	table, ok := c.tables[locale]
	if !ok {
		table = c.tables[c.fallback]
	}
	msg, ok := table[key]
	if !ok {
		return "", &MissingMessageError{Locale: locale, Key: key}
	}
	return msg, nil
}

// Builtin returns the catalog bundled with this build. It covers every key
// the built-in checks reference; an embedding application with its own
// translations supplies its own Catalog instead.
func Builtin() Catalog {
	return &mapCatalog{
		fallback: "en",
		tables: map[string]map[string]string{
			"en": {
				"result_message_not_visible":                     "This element is not visible to the user",
				"result_message_not_important_for_accessibility": "This element is not important for accessibility",
				"result_message_class_name_is_unknown":           "This element's class name could not be determined",
				"result_message_class_name_is_empty":             "This element's class name is empty",
				"result_message_class_name_not_supported_detail": "The class name %s is not supported by the accessibility service",
				"result_message_class_name_not_supported_brief":  "Unsupported class name",
				"check_title_class_name_not_supported":           "Unsupported element type",
			},
		},
	}
}
