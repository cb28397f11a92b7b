package rtierr

import (
	"errors"
	"fmt"
)

// String returns the HLA 1.3 name of the kind, or the IEEE 1516e name for
// conditions that only exist in 1516e.
func (k Kind) String() string {
	n, ok := names[k]
	if !ok {
		return "UNKNOWN"
	}
	if n.hla13 != "" {
		return n.hla13
	}
	return n.ieee1516
}

// IEEE1516eName returns the IEEE 1516e name of the kind, or "" when the
// condition has no 1516e counterpart.
func (k Kind) IEEE1516eName() string {
	return names[k].ieee1516
}

// HLA13Name returns the HLA 1.3 name of the kind, or "" when the condition
// has no 1.3 counterpart.
func (k Kind) HLA13Name() string {
	return names[k].hla13
}

// IsValid reports whether k is a member of the vocabulary.
func (k Kind) IsValid() bool {
	_, ok := names[k]
	return ok
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

var byName map[string]Kind

func init() {
	byName = make(map[string]Kind, 2*len(names))
	for k, n := range names {
		if n.hla13 != "" {
			byName[n.hla13] = k
		}
		if n.ieee1516 != "" {
			byName[n.ieee1516] = k
		}
	}
}

// ParseKind resolves a failure name in either spelling.
func ParseKind(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}

// Error is a failure raised by an RTI service.
type Error struct {
	Kind   Kind
	Reason string
}

// New creates an error of the given kind.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Errorf creates an error of the given kind with a formatted reason.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Error returns "Kind: reason".
func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Reason
}

// Is matches a Kind target, or another *Error of the same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return t != nil && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the kind of err. Errors that are not part of the vocabulary
// report RTIinternalError; a nil error reports KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return RTIinternalError
}

// Internal wraps an unexpected failure as RTIinternalError.
func Internal(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: RTIinternalError, Reason: err.Error()}
}
