// Package checkresult holds the value types a check produces: Result and its
// open-ended Metadata bag. Both are immutable once attached to a holder and
// compare structurally, so equality and hashes are stable across processes.
package checkresult

import (
	"fmt"
	"hash/fnv"
	"slices"
	"sort"
	"strings"
)

// ValueType tags the shape of one metadata value.
type ValueType int

const (
	TypeString ValueType = iota + 1
	TypeInt
	TypeBool
	TypeStringList
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeStringList:
		return "string list"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// DuplicateKeyError is returned by Put* when the key is already set.
// Metadata keys are write-once: a check that wants a different value under
// the same key is producing a new Metadata, not mutating an old one.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("metadata key %q already set", e.Key)
}

// TypeMismatchError is returned by typed getters when the stored value has a
// different shape than requested. It is never silently coerced.
type TypeMismatchError struct {
	Key    string
	Stored ValueType
	Wanted ValueType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("metadata key %q holds %s, not %s", e.Key, e.Stored, e.Wanted)
}

type metaValue struct {
	typ  ValueType
	str  string
	num  int64
	flag bool
	list []string
}

// Metadata is an open-ended mapping from string keys to typed values.
// Keys are unique within one instance; equality and hash are structural and
// independent of insertion order. A Metadata is filled by the check that
// creates it and must not be modified after it is attached to a Result or
// Question.
type Metadata struct {
	values map[string]metaValue
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]metaValue)}
}

func (m *Metadata) put(key string, v metaValue) error {
	if _, ok := m.values[key]; ok {
		return &DuplicateKeyError{Key: key}
	}
	m.values[key] = v
	return nil
}

func (m *Metadata) PutString(key, value string) error {
	return m.put(key, metaValue{typ: TypeString, str: value})
}

func (m *Metadata) PutInt(key string, value int64) error {
	return m.put(key, metaValue{typ: TypeInt, num: value})
}

func (m *Metadata) PutBool(key string, value bool) error {
	return m.put(key, metaValue{typ: TypeBool, flag: value})
}

func (m *Metadata) PutStringList(key string, value []string) error {
	return m.put(key, metaValue{typ: TypeStringList, list: slices.Clone(value)})
}

// Getters return ok=false with a nil error when the key is unset; an unset
// key is an absence, not a failure. A set key of the wrong shape returns a
// *TypeMismatchError. All getters treat a nil Metadata as empty.

func (m *Metadata) lookup(key string) (metaValue, bool) {
	if m == nil {
		return metaValue{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *Metadata) GetString(key string) (string, bool, error) {
	v, ok := m.lookup(key)
	if !ok {
		return "", false, nil
	}
	if v.typ != TypeString {
		return "", false, &TypeMismatchError{Key: key, Stored: v.typ, Wanted: TypeString}
	}
	return v.str, true, nil
}

func (m *Metadata) GetInt(key string) (int64, bool, error) {
	v, ok := m.lookup(key)
	if !ok {
		return 0, false, nil
	}
	if v.typ != TypeInt {
		return 0, false, &TypeMismatchError{Key: key, Stored: v.typ, Wanted: TypeInt}
	}
	return v.num, true, nil
}

func (m *Metadata) GetBool(key string) (bool, bool, error) {
	v, ok := m.lookup(key)
	if !ok {
		return false, false, nil
	}
	if v.typ != TypeBool {
		return false, false, &TypeMismatchError{Key: key, Stored: v.typ, Wanted: TypeBool}
	}
	return v.flag, true, nil
}

func (m *Metadata) GetStringList(key string) ([]string, bool, error) {
	v, ok := m.lookup(key)
	if !ok {
		return nil, false, nil
	}
	if v.typ != TypeStringList {
		return nil, false, &TypeMismatchError{Key: key, Stored: v.typ, Wanted: TypeStringList}
	}
	return slices.Clone(v.list), true, nil
}

// TypeOf returns the shape of the value stored under key.
func (m *Metadata) TypeOf(key string) (ValueType, bool) {
	v, ok := m.lookup(key)
	return v.typ, ok
}

func (m *Metadata) Has(key string) bool {
	_, ok := m.lookup(key)
	return ok
}

func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}

// Keys returns the metadata keys in sorted order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone deep-copies the metadata so the caller can take exclusive ownership.
// Cloning nil yields nil: absent metadata stays absent.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	out := NewMetadata()
	for k, v := range m.values {
		cv := v
		cv.list = slices.Clone(v.list)
		out.values[k] = cv
	}
	return out
}

// Equal reports structural equality over key/value pairs, independent of
// insertion order. A nil Metadata equals only another nil: absent metadata
// and an empty-but-present instance are distinct values (and serialize
// differently, so the distinction survives a round trip).
func (m *Metadata) Equal(o *Metadata) bool {
	if m == nil || o == nil {
		return m == nil && o == nil
	}
	if len(m.values) != len(o.values) {
		return false
	}
	for k, v := range m.values {
		ov, ok := o.values[k]
		if !ok || v.typ != ov.typ {
			return false
		}
		switch v.typ {
		case TypeString:
			if v.str != ov.str {
				return false
			}
		case TypeInt:
			if v.num != ov.num {
				return false
			}
		case TypeBool:
			if v.flag != ov.flag {
				return false
			}
		case TypeStringList:
			if !slices.Equal(v.list, ov.list) {
				return false
			}
		}
	}
	return true
}

// Hash returns a structural hash consistent with Equal. Pair hashes are
// combined with XOR so the result does not depend on iteration order, and
// FNV keeps it stable across processes.
func (m *Metadata) Hash() uint64 {
	if m == nil {
		return 0
	}
	var acc uint64 = 1
	for k, v := range m.values {
		h := fnv.New64a()
		fmt.Fprintf(h, "%s\x00%d\x00", k, v.typ)
		switch v.typ {
		case TypeString:
			h.Write([]byte(v.str))
		case TypeInt:
			fmt.Fprintf(h, "%d", v.num)
		case TypeBool:
			fmt.Fprintf(h, "%t", v.flag)
		case TypeStringList:
			for _, s := range v.list {
				fmt.Fprintf(h, "%s\x00", s)
			}
		}
		acc ^= h.Sum64()
	}
	return acc
}

// String renders the pairs sorted by key, so the output is stable.
func (m *Metadata) String() string {
	if m == nil {
		return "<no metadata>"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		v := m.values[k]
		switch v.typ {
		case TypeString:
			fmt.Fprintf(&sb, "%s=%q", k, v.str)
		case TypeInt:
			fmt.Fprintf(&sb, "%s=%d", k, v.num)
		case TypeBool:
			fmt.Fprintf(&sb, "%s=%t", k, v.flag)
		case TypeStringList:
			fmt.Fprintf(&sb, "%s=%q", k, v.list)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}
