package pixelconfig

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Form field names accepted by the configuration page.
const (
	FieldDevName      = "devname"
	FieldUniverse     = "universe"
	FieldChannelStart = "channel_start"
	FieldPixelCount   = "pixel_count"
	FieldPixelType    = "pixel_type"
	FieldPixelColor   = "pixel_color"
	FieldGamma        = "gamma"
)

// FieldKind tells how a field's value is parsed.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInt
	KindFloat
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Field binds a form name to a typed accessor on PixelConfig.
type Field struct {
	Name    string
	Kind    FieldKind
	Options []Option // non-nil for select fields

	intPtr   func(cfg *PixelConfig) *int
	floatPtr func(cfg *PixelConfig) *float64
	textPtr  func(cfg *PixelConfig) *string
}

// Set parses raw and stores it in cfg. ok is false when raw was not a clean
// value and the legacy zero fallback was stored, or when a text value had
// to be truncated.
func (f Field) Set(cfg *PixelConfig, raw string) (ok bool) {
	switch f.Kind {
	case KindText:
		name, truncated := TruncateName(raw)
		*f.textPtr(cfg) = name
		return !truncated
	case KindInt:
		v, ok := ParseInt(raw)
		*f.intPtr(cfg) = v
		return ok
	case KindFloat:
		v, ok := ParseFloat(raw)
		*f.floatPtr(cfg) = v
		return ok
	}
	return false
}

// Get renders the field's current value.
func (f Field) Get(cfg *PixelConfig) string {
	switch f.Kind {
	case KindText:
		return *f.textPtr(cfg)
	case KindInt:
		return strconv.Itoa(*f.intPtr(cfg))
	case KindFloat:
		return FormatGamma(*f.floatPtr(cfg))
	}
	return ""
}

func textField(name string, ptr func(*PixelConfig) *string) Field {
	return Field{Name: name, Kind: KindText, textPtr: ptr}
}

func intField(name string, options []Option, ptr func(*PixelConfig) *int) Field {
	return Field{Name: name, Kind: KindInt, Options: options, intPtr: ptr}
}

func floatField(name string, ptr func(*PixelConfig) *float64) Field {
	return Field{Name: name, Kind: KindFloat, floatPtr: ptr}
}

// Registry is an ordered, name-indexed set of fields.
type Registry struct {
	fields []Field
	index  map[string]int
}

// NewRegistry validates and indexes fields. Every field must have a unique,
// non-empty name and an accessor matching its kind.
func NewRegistry(fields ...Field) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field with empty name")
		}
		if _, dup := r.index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		if !f.hasAccessor() {
			return nil, fmt.Errorf("field %q has no %s accessor", f.Name, f.Kind)
		}
		r.index[f.Name] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on error. Used for package-level
// registries built at init time.
func MustRegistry(fields ...Field) *Registry {
	r, err := NewRegistry(fields...)
	if err != nil {
		panic(fmt.Sprintf("pixelconfig: %v", err))
	}
	return r
}

func (f Field) hasAccessor() bool {
	switch f.Kind {
	case KindText:
		return f.textPtr != nil
	case KindInt:
		return f.intPtr != nil
	case KindFloat:
		return f.floatPtr != nil
	}
	return false
}

// Lookup returns the field registered under name.
func (r *Registry) Lookup(name string) (Field, bool) {
	i, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

// Fields returns the fields in registration order.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Fields is the registry of the pixel configuration page, in page order.
var Fields = MustRegistry(
	textField(FieldDevName, func(c *PixelConfig) *string { return &c.Name }),
	intField(FieldUniverse, nil, func(c *PixelConfig) *int { return &c.Universe }),
	intField(FieldChannelStart, nil, func(c *PixelConfig) *int { return &c.ChannelStart }),
	intField(FieldPixelCount, nil, func(c *PixelConfig) *int { return &c.PixelCount }),
	intField(FieldPixelType, PixelTypes, func(c *PixelConfig) *int { return &c.PixelType }),
	intField(FieldPixelColor, ColorOrders, func(c *PixelConfig) *int { return &c.PixelColor }),
	floatField(FieldGamma, func(c *PixelConfig) *float64 { return &c.Gamma }),
)

// Arg is one name/value pair of a request, already percent-decoded.
type Arg struct {
	Name  string
	Value string
}

// ParseArgs splits a raw query string (or urlencoded body) into its
// arguments, keeping their order and duplicates.
func ParseArgs(raw string) []Arg {
	var args []Arg
	for _, piece := range strings.Split(raw, "&") {
		if piece == "" {
			continue
		}
		name, value, _ := strings.Cut(piece, "=")
		args = append(args, Arg{Name: URLDecode(name), Value: URLDecode(value)})
	}
	return args
}

// ApplyReport describes what Apply did with a set of arguments.
type ApplyReport struct {
	Applied []string // fields that were assigned, in argument order
	Ignored []string // argument names with no matching field
	Coerced []string // fields whose value fell back to zero or was truncated
}

// Changed reports whether any field was assigned.
func (r ApplyReport) Changed() bool {
	return len(r.Applied) > 0
}

// Apply assigns every recognized argument to cfg in order. A later argument
// for the same field overwrites an earlier one.
func (r *Registry) Apply(cfg *PixelConfig, args []Arg) ApplyReport {
	var report ApplyReport
	for _, arg := range args {
		field, ok := r.Lookup(arg.Name)
		if !ok {
			report.Ignored = append(report.Ignored, arg.Name)
			continue
		}
		if !field.Set(cfg, arg.Value) {
			report.Coerced = append(report.Coerced, field.Name)
		}
		report.Applied = append(report.Applied, field.Name)
	}
	return report
}

// ToQuery encodes every field of cfg as form values, in the shape the
// configuration page submits them.
func (r *Registry) ToQuery(cfg *PixelConfig) url.Values {
	q := url.Values{}
	for _, f := range r.fields {
		q.Set(f.Name, f.Get(cfg))
	}
	return q
}
