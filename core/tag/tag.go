// Package tag fills zero-valued struct fields from `default:"..."` tags.
package tag

import (
	"reflect"
)

// Option configures ApplyDefaults.
type Option func(*options)

type options struct {
	tagName  string
	maxDepth int
}

// WithTagName sets the tag name to look for (default: "default")
func WithTagName(name string) Option {
	return func(o *options) {
		o.tagName = name
	}
}

// WithMaxDepth sets the maximum recursion depth (default: 32)
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// ApplyDefaults sets default values for zero struct fields based on struct
// tags. Non-zero fields are left untouched, so callers may pre-fill a value
// and still get defaults for the rest. The target must be a pointer to a struct.
//
//	type Config struct {
//	    Version paseto.Version `default:"v2"`
//	    TTL     time.Duration  `default:"15m"`
//	}
func ApplyDefaults(target any, opts ...Option) error {
	o := &options{tagName: "default", maxDepth: 32}
	for _, opt := range opts {
		opt(o)
	}

	valueOf := reflect.ValueOf(target)
	if valueOf.Kind() != reflect.Pointer {
		return ErrTargetMustBePointer
	}
	if valueOf.IsNil() {
		return ErrTargetIsNil
	}

	elem := valueOf.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrUnsupportedType
	}

	w := &walker{options: o}
	return w.applyStruct(elem, "")
}

type walker struct {
	*options
	depth int
}

func (w *walker) applyStruct(value reflect.Value, path string) error {
	if w.depth >= w.maxDepth {
		return ErrMaxDepthExceeded
	}
	w.depth++
	defer func() { w.depth-- }()

	typ := value.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		fieldValue := value.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}

		if err := w.applyField(fieldValue, field.Tag.Get(w.tagName), fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) applyField(value reflect.Value, tagValue, path string) error {
	switch value.Kind() {
	case reflect.Struct:
		// a struct with a TextUnmarshaler and a tag is treated as a scalar
		if tagValue != "" && value.IsZero() && isTextUnmarshaler(value) {
			return w.parse(value, tagValue, path)
		}
		return w.applyStruct(value, path)

	case reflect.Slice:
		if value.Len() > 0 {
			return w.applySliceElements(value, path)
		}

	case reflect.Pointer:
		if !value.IsNil() {
			if value.Elem().Kind() == reflect.Struct {
				return w.applyStruct(value.Elem(), path)
			}
			return nil
		}
		if value.Type().Elem().Kind() == reflect.Struct && tagValue == "" {
			return nil
		}
	}

	if tagValue == "" || !value.IsZero() {
		return nil
	}

	if value.Kind() == reflect.Pointer {
		ptr := reflect.New(value.Type().Elem())
		if err := w.parse(ptr.Elem(), tagValue, path); err != nil {
			return err
		}
		value.Set(ptr)
		return nil
	}

	return w.parse(value, tagValue, path)
}

func (w *walker) applySliceElements(value reflect.Value, path string) error {
	for i := range value.Len() {
		elem := value.Index(i)
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			if err := w.applyStruct(elem, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) parse(value reflect.Value, tagValue, path string) error {
	if err := parseValue(value, tagValue); err != nil {
		return newFieldError(path, value.Kind(), w.tagName, tagValue, err)
	}
	return nil
}
