package repository

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// RootPath is the path of the repository root node.
const RootPath = "/"

// RootNodeType is the node type of the repository root.
const RootNodeType = "rep:root"

// PropertyType identifies the type of a property value.
type PropertyType int

const (
	// PropertyTypeString is a UTF-8 string value.
	PropertyTypeString PropertyType = iota + 1
	// PropertyTypeBoolean is a boolean value.
	PropertyTypeBoolean
	// PropertyTypeLong is a 64-bit integer value.
	PropertyTypeLong
	// PropertyTypeDate is a timestamp value.
	PropertyTypeDate
	// PropertyTypeBinary is an opaque byte value.
	PropertyTypeBinary
)

// String returns the name of the property type.
func (t PropertyType) String() string {
	switch t {
	case PropertyTypeString:
		return "String"
	case PropertyTypeBoolean:
		return "Boolean"
	case PropertyTypeLong:
		return "Long"
	case PropertyTypeDate:
		return "Date"
	case PropertyTypeBinary:
		return "Binary"
	default:
		return fmt.Sprintf("PropertyType(%d)", int(t))
	}
}

// Value is a typed property value. Only the field matching Type is set.
type Value struct {
	Type   PropertyType `json:"type"`
	Str    string       `json:"str,omitempty"`
	Bool   bool         `json:"bool,omitempty"`
	Long   int64        `json:"long,omitempty"`
	Date   time.Time    `json:"date,omitempty"`
	Binary []byte       `json:"binary,omitempty"`
}

// StringValue returns a string property value.
func StringValue(s string) Value {
	return Value{Type: PropertyTypeString, Str: s}
}

// BooleanValue returns a boolean property value.
func BooleanValue(b bool) Value {
	return Value{Type: PropertyTypeBoolean, Bool: b}
}

// LongValue returns a long property value.
func LongValue(n int64) Value {
	return Value{Type: PropertyTypeLong, Long: n}
}

// DateValue returns a date property value.
func DateValue(t time.Time) Value {
	return Value{Type: PropertyTypeDate, Date: t}
}

// BinaryValue returns a binary property value. The bytes are copied.
func BinaryValue(b []byte) Value {
	return Value{Type: PropertyTypeBinary, Binary: append([]byte(nil), b...)}
}

// String converts the value to its string form, the way a content
// repository converts any property when read as a string.
func (v Value) String() string {
	switch v.Type {
	case PropertyTypeBoolean:
		return strconv.FormatBool(v.Bool)
	case PropertyTypeLong:
		return strconv.FormatInt(v.Long, 10)
	case PropertyTypeDate:
		return v.Date.Format(time.RFC3339Nano)
	case PropertyTypeBinary:
		return string(v.Binary)
	default:
		return v.Str
	}
}

// Boolean converts the value to a boolean. String values are parsed.
func (v Value) Boolean() (bool, error) {
	switch v.Type {
	case PropertyTypeBoolean:
		return v.Bool, nil
	case PropertyTypeString:
		b, err := strconv.ParseBool(v.Str)
		if err != nil {
			return false, fmt.Errorf("cannot convert %q to Boolean: %w", v.Str, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot convert %s to Boolean", v.Type)
	}
}

// Int64 converts the value to a long. Dates convert to epoch milliseconds
// and string values are parsed.
func (v Value) Int64() (int64, error) {
	switch v.Type {
	case PropertyTypeLong:
		return v.Long, nil
	case PropertyTypeDate:
		return v.Date.UnixMilli(), nil
	case PropertyTypeString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to Long: %w", v.Str, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %s to Long", v.Type)
	}
}

// Bytes returns the binary content of the value. Non-binary values are
// returned in their string form.
func (v Value) Bytes() []byte {
	if v.Type == PropertyTypeBinary {
		return append([]byte(nil), v.Binary...)
	}
	return []byte(v.String())
}

// Node is a snapshot of a repository node. Changing a Node does not change
// the repository; use the Session methods for that.
type Node struct {
	Path       string
	Name       string
	Type       string
	Properties map[string]Value
}

// Property returns the named property.
func (n *Node) Property(name string) (Value, bool) {
	v, ok := n.Properties[name]
	return v, ok
}

// HasProperty reports whether the named property is set.
func (n *Node) HasProperty(name string) bool {
	_, ok := n.Properties[name]
	return ok
}

// Join returns the path of the child called name under parent.
func Join(parent, name string) string {
	return path.Join(parent, name)
}

// Parent returns the parent path of p. The parent of the root is the root.
func Parent(p string) string {
	return path.Dir(p)
}

// Name returns the last element of p. The root has an empty name.
func Name(p string) string {
	if p == RootPath {
		return ""
	}
	return path.Base(p)
}

// CleanPath validates p and returns it in canonical form.
func CleanPath(p string) (string, error) {
	if p == "" || !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return path.Clean(p), nil
}

// validName reports whether name can be used as a node name.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}

func copyProperties(props map[string]Value) map[string]Value {
	out := make(map[string]Value, len(props))
	for k, v := range props {
		if v.Type == PropertyTypeBinary {
			v.Binary = append([]byte(nil), v.Binary...)
		}
		out[k] = v
	}
	return out
}
