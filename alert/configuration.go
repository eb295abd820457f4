package alert

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Configuration is the set of options a host hands to an alarm callback.
// Values arrive loosely typed, so accessors coerce where it is safe to do so.
type Configuration struct {
	source map[string]interface{}
}

// NewConfiguration copies source into a new Configuration.
func NewConfiguration(source map[string]interface{}) Configuration {
	c := Configuration{source: make(map[string]interface{}, len(source))}
	for k, v := range source {
		c.source[k] = v
	}
	return c
}

// Source returns a copy of the raw key/value pairs.
func (c Configuration) Source() map[string]interface{} {
	m := make(map[string]interface{}, len(c.source))
	for k, v := range c.source {
		m[k] = v
	}
	return m
}

func (c Configuration) Has(key string) bool {
	_, ok := c.source[key]
	return ok
}

// GetString returns the value for key as a string, or "" if it is absent
// or not a string.
func (c Configuration) GetString(key string) string {
	s, _ := c.source[key].(string)
	return s
}

// StringIsSet reports whether key holds a non-empty string.
func (c Configuration) StringIsSet(key string) bool {
	return c.GetString(key) != ""
}

// GetInt returns the value for key as an int. Numeric strings and JSON
// numbers are accepted; anything else yields def.
func (c Configuration) GetInt(key string, def int) int {
	switch v := c.source[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

// Optional marks whether a configuration field may be left unset.
type Optional bool

const (
	NotOptional Optional = false
	IsOptional  Optional = true
)

// Attribute is a rendering hint attached to a field.
type Attribute string

const (
	IsPassword Attribute = "is_password"
	TextArea   Attribute = "textarea"
)

// FieldType names the kind of a configuration field.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
)

// Field is a single declared configuration option. TextField and NumberField
// are its two variants.
type Field interface {
	Name() string
	Type() FieldType
	HumanName() string
	Description() string
	DefaultValue() interface{}
	Optional() Optional
	Attributes() []Attribute
}

type fieldBase struct {
	name        string
	humanName   string
	description string
	optional    Optional
	attributes  []Attribute
}

func (f fieldBase) Name() string        { return f.name }
func (f fieldBase) HumanName() string   { return f.humanName }
func (f fieldBase) Description() string { return f.description }
func (f fieldBase) Optional() Optional  { return f.optional }

func (f fieldBase) Attributes() []Attribute {
	attrs := make([]Attribute, len(f.attributes))
	copy(attrs, f.attributes)
	return attrs
}

// HasAttribute reports whether f was declared with attr.
func HasAttribute(f Field, attr Attribute) bool {
	for _, a := range f.Attributes() {
		if a == attr {
			return true
		}
	}
	return false
}

type TextField struct {
	fieldBase
	defaultValue string
}

func NewTextField(name, humanName, defaultValue, description string, optional Optional, attrs ...Attribute) TextField {
	return TextField{
		fieldBase: fieldBase{
			name:        name,
			humanName:   humanName,
			description: description,
			optional:    optional,
			attributes:  attrs,
		},
		defaultValue: defaultValue,
	}
}

func (f TextField) Type() FieldType           { return FieldText }
func (f TextField) DefaultValue() interface{} { return f.defaultValue }

type NumberField struct {
	fieldBase
	defaultValue int
}

func NewNumberField(name, humanName string, defaultValue int, description string, optional Optional, attrs ...Attribute) NumberField {
	return NumberField{
		fieldBase: fieldBase{
			name:        name,
			humanName:   humanName,
			description: description,
			optional:    optional,
			attributes:  attrs,
		},
		defaultValue: defaultValue,
	}
}

func (f NumberField) Type() FieldType           { return FieldNumber }
func (f NumberField) DefaultValue() interface{} { return f.defaultValue }

// ConfigurationRequest is the ordered list of fields a callback asks the
// host to collect.
type ConfigurationRequest struct {
	fields []Field
}

func (r *ConfigurationRequest) AddField(f Field) {
	r.fields = append(r.fields, f)
}

// Fields returns the declared fields in declaration order.
func (r ConfigurationRequest) Fields() []Field {
	fs := make([]Field, len(r.fields))
	copy(fs, r.fields)
	return fs
}

func (r ConfigurationRequest) Field(name string) (Field, bool) {
	for _, f := range r.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// fieldJSON is the wire shape hosts use to render a configuration form.
type fieldJSON struct {
	Type         FieldType   `json:"type"`
	HumanName    string      `json:"human_name"`
	Description  string      `json:"description"`
	DefaultValue interface{} `json:"default_value"`
	IsOptional   bool        `json:"is_optional"`
	Attributes   []Attribute `json:"attributes"`
	Position     int         `json:"position"`
}

// MarshalJSON renders the request as a map keyed by field name, each entry
// carrying its position so ordering survives the map.
func (r ConfigurationRequest) MarshalJSON() ([]byte, error) {
	m := make(map[string]fieldJSON, len(r.fields))
	for i, f := range r.fields {
		m[f.Name()] = fieldJSON{
			Type:         f.Type(),
			HumanName:    f.HumanName(),
			Description:  f.Description(),
			DefaultValue: f.DefaultValue(),
			IsOptional:   bool(f.Optional()),
			Attributes:   f.Attributes(),
			Position:     i,
		}
	}
	return json.Marshal(m)
}
