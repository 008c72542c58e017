package settings

import (
	"fmt"
	"strconv"
	"strings"

	"svnherald/internal/pattern"
)

// CoerceError reports a raw value that could not be converted to its
// declared kind.
type CoerceError struct {
	Key  string
	Raw  string
	Kind ValueKind
	Err  error
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("option %s: cannot read %q as %s: %v", e.Key, e.Raw, e.Kind, e.Err)
}

func (e *CoerceError) Unwrap() error { return e.Err }

var boolWords = map[string]bool{
	"1": true, "yes": true, "on": true, "true": true,
	"": false, "0": false, "no": false, "off": false, "false": false, "none": false,
}

// Coerce converts a raw string into the typed value of the given kind. It is
// a pure function: no I/O, no global state. allowed constrains KindChoice
// values and is ignored for other kinds.
func Coerce(key, raw string, kind ValueKind, allowed []string) (Value, error) {
	value := Value{Kind: kind}
	fail := func(err error) (Value, error) {
		return Value{}, &CoerceError{Key: key, Raw: raw, Kind: kind, Err: err}
	}

	switch kind {
	case KindString:
		value.Str = raw

	case KindBool:
		b, ok := boolWords[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return fail(fmt.Errorf("expected yes/no/true/false/1/0"))
		}
		value.Bool = b

	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fail(err)
		}
		value.Int = n

	case KindList:
		value.List = strings.Fields(raw)

	case KindRegex:
		p, err := pattern.Compile(raw)
		if err != nil {
			return fail(err)
		}
		value.Pattern = p

	case KindChoice:
		choice := strings.TrimSpace(raw)
		found := false
		for _, a := range allowed {
			if choice == a {
				found = true
				break
			}
		}
		if !found {
			return fail(fmt.Errorf("expected one of %s", strings.Join(allowed, ", ")))
		}
		value.Str = choice

	case KindChangeSet:
		set := ChangeSet{}
		for _, field := range strings.Fields(raw) {
			kind, err := ParseChangeKind(field)
			if err != nil {
				return fail(err)
			}
			set.Add(kind)
		}
		value.Changes = set

	case KindMailAction:
		if strings.TrimSpace(raw) != "" {
			action, err := ParseMailAction(raw)
			if err != nil {
				return fail(err)
			}
			value.Action = action
		}

	default:
		return fail(fmt.Errorf("unsupported value kind"))
	}
	return value, nil
}
