package tag

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	bytesType           = reflect.TypeFor[[]byte]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

func isTextUnmarshaler(value reflect.Value) bool {
	return value.CanAddr() && value.Addr().Type().Implements(textUnmarshalerType)
}

// parseValue parses str into value. Slices take comma-separated elements.
func parseValue(value reflect.Value, str string) error {
	if isTextUnmarshaler(value) {
		return value.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(str))
	}

	if value.Kind() == reflect.Slice {
		if value.Type() == bytesType {
			value.SetBytes([]byte(str))
			return nil
		}
		return parseSlice(value, str)
	}

	return parseScalar(value, strings.TrimSpace(str))
}

func parseSlice(value reflect.Value, str string) error {
	str = strings.TrimSpace(str)
	if str == "" {
		value.Set(reflect.MakeSlice(value.Type(), 0, 0))
		return nil
	}

	parts := strings.Split(str, ",")
	slice := reflect.MakeSlice(value.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := parseValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
			return err
		}
	}

	value.Set(slice)
	return nil
}

func parseScalar(value reflect.Value, str string) error {
	switch value.Kind() {
	case reflect.String:
		value.SetString(str)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value.Type() == durationType {
			d, err := time.ParseDuration(str)
			if err != nil {
				return err
			}
			value.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(str, 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(str, 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(str, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(str)
		if err != nil {
			return err
		}
		value.SetBool(b)

	default:
		return ErrUnsupportedType
	}
	return nil
}
