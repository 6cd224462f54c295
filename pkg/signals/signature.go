package signals

import (
	"fmt"
	"strings"

	"github.com/go-drift/gbind/pkg/native"
)

// ParamKind is the primitive type of one signal parameter.
type ParamKind int

const (
	ParamInt ParamKind = iota
	ParamBool
	ParamString
	ParamHandle
)

func (k ParamKind) String() string {
	switch k {
	case ParamInt:
		return "int"
	case ParamBool:
		return "bool"
	case ParamString:
		return "string"
	case ParamHandle:
		return "handle"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// Signature describes the arguments a native signal carries after the
// instance argument.
type Signature struct {
	Params []ParamKind
}

// Common signatures.
var (
	// Void is the signature of signals without arguments (clicked, destroy, activate).
	Void = Signature{}
	// Response is the signature of GtkDialog::response.
	Response = Signature{Params: []ParamKind{ParamInt}}
	// Toggled is the signature of boolean notification signals.
	Toggled = Signature{Params: []ParamKind{ParamBool}}
	// ActivateLink is the signature of signals carrying a URI.
	ActivateLink = Signature{Params: []ParamKind{ParamString}}
	// ChildSignal is the signature of signals carrying a widget handle.
	ChildSignal = Signature{Params: []ParamKind{ParamHandle}}
)

// Key identifies the signature; equal signatures have equal keys.
func (s Signature) Key() string {
	if len(s.Params) == 0 {
		return "void"
	}
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func (s Signature) String() string {
	return "(" + s.Key() + ")"
}

// Check validates args against the signature.
func (s Signature) Check(args native.Args) error {
	if args.Len() != len(s.Params) {
		return fmt.Errorf("signature %s: got %d arguments", s, args.Len())
	}
	for i, p := range s.Params {
		var err error
		switch p {
		case ParamInt:
			_, err = args.Int(i)
		case ParamBool:
			_, err = args.Bool(i)
		case ParamString:
			_, err = args.String(i)
		case ParamHandle:
			_, err = args.Handle(i)
		}
		if err != nil {
			return fmt.Errorf("signature %s: %w", s, err)
		}
	}
	return nil
}
