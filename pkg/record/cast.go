package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the declared type of a record attribute.
type Kind string

const (
	// KindAny stores values verbatim.
	KindAny Kind = ""
	// KindString stores values as strings.
	KindString Kind = "string"
	// KindText is KindString for long text columns such as viewport bounds.
	KindText Kind = "text"
	// KindDecimal stores values as float64.
	KindDecimal Kind = "decimal"
	// KindInt stores values as int64.
	KindInt Kind = "int"
)

// CastError reports a value that cannot be coerced to an attribute kind.
type CastError struct {
	Attribute string
	Kind      Kind
	Value     any
	Err       error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("record: cast %q to %s for %s: %v", fmt.Sprint(e.Value), e.Kind, e.Attribute, e.Err)
}

func (e *CastError) Unwrap() error { return e.Err }

// Cast coerces value to kind. Nil and blank strings become nil for numeric
// kinds.
func Cast(kind Kind, value any) (any, error) {
	switch kind {
	case KindAny:
		return value, nil
	case KindString, KindText:
		if value == nil {
			return nil, nil
		}
		return fmt.Sprint(value), nil
	case KindDecimal:
		return castDecimal(value)
	case KindInt:
		return castInt(value)
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func castDecimal(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, fmt.Errorf("not a finite number")
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}

func castInt(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(math.Round(v)), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return parsed, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, err
		}
		return int64(math.Round(parsed)), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
