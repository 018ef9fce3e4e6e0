package mapfield

import "reflect"

// Record is the host content entity a Field reads its initial value from and
// saves into. Implementations own type coercion in SetCastedField.
type Record interface {
	// TypeName identifies the record type; it prefixes the field name.
	TypeName() string
	// Get returns the attribute value and whether the attribute is set.
	Get(name string) (any, bool)
	// SetCastedField coerces value to the attribute's declared type and
	// stores it.
	SetCastedField(name string, value any) error
}

// isEmpty reports whether a record value falls back to the configured
// default: nil, "", "0", false and numeric zero of any kind. Whitespace is
// significant.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == "" || v == "0"
	case *string:
		return v == nil || *v == "" || *v == "0"
	case bool:
		return !v
	}
	if zero, ok := numericZero(value); ok {
		return zero
	}
	return false
}

// numericZero reports whether value is a zero number. ok is false when value
// is not a number.
func numericZero(value any) (zero, ok bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0, true
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0, true
	}
	return false, false
}
