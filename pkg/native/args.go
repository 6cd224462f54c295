package native

import "fmt"

// Args holds the primitive arguments of a signal emission.
//
// Values arrive either directly from an in-process toolkit (bool, int,
// string, Handle) or decoded from a wire codec, where numbers show up as
// float64. The typed accessors accept both.
type Args []any

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a)
}

// Int returns argument i as an int.
func (a Args) Int(i int) (int, error) {
	if i < 0 || i >= len(a) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", i, len(a))
	}
	switch v := a[i].(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("argument %d: %v is not an integer", i, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("argument %d: want int, got %T", i, a[i])
	}
}

// Bool returns argument i as a bool. Native 0/1 integers are accepted.
func (a Args) Bool(i int) (bool, error) {
	if i < 0 || i >= len(a) {
		return false, fmt.Errorf("argument %d out of range (have %d)", i, len(a))
	}
	switch v := a[i].(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("argument %d: want bool, got %T", i, a[i])
	}
}

// String returns argument i as a string.
func (a Args) String(i int) (string, error) {
	if i < 0 || i >= len(a) {
		return "", fmt.Errorf("argument %d out of range (have %d)", i, len(a))
	}
	s, ok := a[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d: want string, got %T", i, a[i])
	}
	return s, nil
}

// Handle returns argument i as a Handle. A nil argument is NullHandle.
func (a Args) Handle(i int) (Handle, error) {
	if i < 0 || i >= len(a) {
		return NullHandle, fmt.Errorf("argument %d out of range (have %d)", i, len(a))
	}
	switch v := a[i].(type) {
	case nil:
		return NullHandle, nil
	case Handle:
		return v, nil
	case uintptr:
		return Handle(v), nil
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return NullHandle, fmt.Errorf("argument %d: %v is not a handle", i, v)
		}
		return Handle(uint64(v)), nil
	default:
		return NullHandle, fmt.Errorf("argument %d: want handle, got %T", i, a[i])
	}
}
