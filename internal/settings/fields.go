package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var errValueRequired = errors.New("value is required")

// field binds one JSON key of Settings to typed accessors.
type field struct {
	key string
	// get returns nil for zero values.
	get func(s *Settings) any
	// assign coerces a caller-supplied value.
	assign func(s *Settings, v any) error
	// decode applies a stored JSON value; null resets to the zero value.
	decode func(s *Settings, raw json.RawMessage) error
}

var fields = []field{
	optionalField("language", func(s *Settings) **string { return &s.Language }),
	enumField("displayDenomination", func(s *Settings) *string { return &s.DisplayDenomination }),
	enumField("walletStore", func(s *Settings) *WalletStore { return &s.WalletStore }, WalletStoreLocal, WalletStoreNone),
	enumField("displayCurrency", func(s *Settings) *string { return &s.DisplayCurrency }),
	optionalField("defaultRepresentative", func(s *Settings) **string { return &s.DefaultRepresentative }),
	intField("lockOnClose", func(s *Settings) *int { return &s.LockOnClose }),
	intField("lockInactivityMinutes", func(s *Settings) *int { return &s.LockInactivityMinutes }),
	enumField("ledgerReconnect", func(s *Settings) *LedgerConnection { return &s.LedgerReconnect }, LedgerUSB, LedgerBluetooth),
	enumField("powSource", func(s *Settings) *PoWSource { return &s.PoWSource }, PoWServer, PoWClientCPU, PoWClientWebGL, PoWBest, PoWCustom),
	intField("multiplierSource", func(s *Settings) *int { return &s.MultiplierSource }),
	enumField("customWorkServer", func(s *Settings) *string { return &s.CustomWorkServer }),
	enumField("pendingOption", func(s *Settings) *string { return &s.PendingOption }),
	enumField("serverName", func(s *Settings) *string { return &s.ServerName }),
	optionalField("serverAPI", func(s *Settings) **string { return &s.ServerAPI }),
	optionalField("serverWS", func(s *Settings) **string { return &s.ServerWS }),
	optionalField("serverAuth", func(s *Settings) **string { return &s.ServerAuth }),
	optionalField("anonymizerAPI", func(s *Settings) **string { return &s.AnonymizerAPI }),
	optionalField("minimumReceive", func(s *Settings) **string { return &s.MinimumReceive }),
	optionalField("walletVersion", func(s *Settings) **int { return &s.WalletVersion }),
	boolField("lightModeEnabled", func(s *Settings) *bool { return &s.LightModeEnabled }),
	enumField("identiconsStyle", func(s *Settings) *string { return &s.IdenticonsStyle }),
}

var fieldsByKey = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.key] = f
	}

	return m
}()

// Keys returns every settings key in schema order.
func Keys() []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.key)
	}

	return out
}

// enumField handles string-backed fields. Without allowed values any string
// is accepted.
func enumField[T ~string](key string, ref func(*Settings) *T, allowed ...T) field {
	validate := func(v T) error {
		if len(allowed) == 0 || slices.Contains(allowed, v) {
			return nil
		}

		return fmt.Errorf("%q is not one of %v", v, allowed)
	}

	return field{
		key: key,
		get: func(s *Settings) any { return nonZero(string(*ref(s))) },
		assign: func(s *Settings, v any) error {
			if v == nil {
				return errValueRequired
			}
			var t T
			if typed, ok := v.(T); ok {
				t = typed
			} else {
				str, err := cast.ToStringE(v)
				if err != nil {
					return err
				}
				t = T(str)
			}
			if err := validate(t); err != nil {
				return err
			}
			*ref(s) = t

			return nil
		},
		decode: func(s *Settings, raw json.RawMessage) error {
			var str *string
			if err := json.Unmarshal(raw, &str); err != nil {
				return err
			}
			t := T(Deref(str))
			if err := validate(t); err != nil {
				return err
			}
			*ref(s) = t

			return nil
		},
	}
}

func intField(key string, ref func(*Settings) *int) field {
	return field{
		key: key,
		get: func(s *Settings) any { return nonZero(*ref(s)) },
		assign: func(s *Settings, v any) error {
			if v == nil {
				return errValueRequired
			}
			n, err := toInt(v)
			if err != nil {
				return err
			}
			*ref(s) = n

			return nil
		},
		decode: func(s *Settings, raw json.RawMessage) error {
			var n *int
			if err := json.Unmarshal(raw, &n); err != nil {
				return err
			}
			*ref(s) = Deref(n)

			return nil
		},
	}
}

func boolField(key string, ref func(*Settings) *bool) field {
	return field{
		key: key,
		get: func(s *Settings) any { return nonZero(*ref(s)) },
		assign: func(s *Settings, v any) error {
			if v == nil {
				return errValueRequired
			}
			b, err := cast.ToBoolE(v)
			if err != nil {
				return err
			}
			*ref(s) = b

			return nil
		},
		decode: func(s *Settings, raw json.RawMessage) error {
			var b *bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return err
			}
			*ref(s) = Deref(b)

			return nil
		},
	}
}

// optionalField handles nullable string and int fields; nil clears them.
func optionalField[T string | int](key string, ref func(*Settings) **T) field {
	return field{
		key: key,
		get: func(s *Settings) any {
			p := *ref(s)
			if p == nil {
				return nil
			}

			return nonZero(*p)
		},
		assign: func(s *Settings, v any) error {
			if v == nil {
				*ref(s) = nil

				return nil
			}
			if p, ok := v.(*T); ok {
				*ref(s) = clonePtr(p)

				return nil
			}
			t, err := coerce[T](v)
			if err != nil {
				return err
			}
			*ref(s) = &t

			return nil
		},
		decode: func(s *Settings, raw json.RawMessage) error {
			var p *T
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			*ref(s) = p

			return nil
		},
	}
}

func coerce[T string | int](v any) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		s, err := cast.ToStringE(v)
		if err != nil {
			return zero, err
		}

		return any(s).(T), nil
	default:
		n, err := toInt(v)
		if err != nil {
			return zero, err
		}

		return any(n).(T), nil
	}
}

// toInt reads strings as plain base-10 so "010" is ten, not an octal eight.
func toInt(v any) (int, error) {
	if str, ok := v.(string); ok {
		return strconv.Atoi(strings.TrimSpace(str))
	}

	return cast.ToIntE(v)
}

func nonZero[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}

	return v
}
