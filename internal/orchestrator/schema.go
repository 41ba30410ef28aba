package orchestrator

import (
	"fmt"

	"github.com/jonathan/pitch-perfect/internal/schemas"
)

// Kind is the top-level JSON shape a schema expects
type Kind string

// Supported response shapes
const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
)

// Schema describes the record a call site expects back from the model and
// the values used when the model cannot deliver it.
type Schema struct {
	Name string
	Kind Kind

	// Required lists the fields every object record must carry
	Required []string
	// Defaults maps a field to the value used when it is missing or has the
	// wrong type. For arrays it applies to optional entry fields.
	Defaults map[string]interface{}
	// DefaultRecord is returned whole for object schemas when the call degrades
	DefaultRecord map[string]interface{}

	// RequiredEntryFields are the fields an array entry cannot be kept without
	RequiredEntryFields []string
	// DefaultItems are returned for array schemas when the call degrades
	DefaultItems []map[string]interface{}

	// JSONSchema optionally describes field types. For arrays it describes one entry.
	JSONSchema string

	compiled *schemas.Compiled
}

// Validate checks the default tables against the required fields and
// compiles the JSON Schema. It must succeed before the schema is used.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return &SchemaError{Schema: "(unnamed)", Message: "name is required"}
	}

	switch s.Kind {
	case KindObject:
		if len(s.Required) == 0 {
			return &SchemaError{Schema: s.Name, Message: "object schema needs required fields"}
		}
		for _, field := range s.Required {
			if _, ok := s.Defaults[field]; !ok {
				return &SchemaError{Schema: s.Name, Message: fmt.Sprintf("no default for required field %q", field)}
			}
			if _, ok := s.DefaultRecord[field]; !ok {
				return &SchemaError{Schema: s.Name, Message: fmt.Sprintf("default record is missing %q", field)}
			}
		}
	case KindArray:
		if len(s.RequiredEntryFields) == 0 {
			return &SchemaError{Schema: s.Name, Message: "array schema needs required entry fields"}
		}
		if len(s.DefaultItems) == 0 {
			return &SchemaError{Schema: s.Name, Message: "array schema needs default items"}
		}
		for i, item := range s.DefaultItems {
			for _, field := range s.RequiredEntryFields {
				if _, ok := item[field]; !ok {
					return &SchemaError{Schema: s.Name, Message: fmt.Sprintf("default item %d is missing %q", i, field)}
				}
			}
		}
	default:
		return &SchemaError{Schema: s.Name, Message: fmt.Sprintf("unknown kind %q", s.Kind)}
	}

	if s.JSONSchema == "" {
		return nil
	}
	compiled, err := schemas.Compile(s.JSONSchema)
	if err != nil {
		return &SchemaError{Schema: s.Name, Message: err.Error()}
	}
	s.compiled = compiled

	switch s.Kind {
	case KindObject:
		if err := compiled.Validate(s.DefaultRecord); err != nil {
			return &SchemaError{Schema: s.Name, Message: "default record does not match JSON schema: " + err.Error()}
		}
	case KindArray:
		for i, item := range s.DefaultItems {
			if err := compiled.Validate(item); err != nil {
				return &SchemaError{Schema: s.Name, Message: fmt.Sprintf("default item %d does not match JSON schema: %v", i, err)}
			}
		}
	}
	return nil
}

// MustSchema validates s and panics on error. Use it for package-level schemas.
func MustSchema(s Schema) *Schema {
	if err := s.Validate(); err != nil {
		panic(err)
	}
	return &s
}

func (s *Schema) defaultRecord() map[string]interface{} {
	return cloneMap(s.DefaultRecord)
}

func (s *Schema) defaultItems() []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(s.DefaultItems))
	for _, item := range s.DefaultItems {
		items = append(items, cloneMap(item))
	}
	return items
}

func (s *Schema) fieldDefault(field string) (interface{}, bool) {
	v, ok := s.Defaults[field]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string{}, t...)
	default:
		return v
	}
}
