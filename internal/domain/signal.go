package domain

import (
	"fmt"
	"strings"
)

// SignalState maps signal key to its current value.
type SignalState map[string]string

// Clone returns an independent copy of s.
func (s SignalState) Clone() SignalState {
	out := make(SignalState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SignalAny matches any value in the corresponding part of a signal value.
const SignalAny = "any"

// Signal is a pattern to watch for in a SignalState.
// Value is made of "_"-separated parts; a part equal to SignalAny matches anything.
type Signal struct {
	Key   string
	Value string
}

// ParseSignal parses "key=value".
func ParseSignal(s string) (Signal, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return Signal{}, fmt.Errorf("invalid signal %q: want key=value", s)
	}
	return Signal{Key: key, Value: value}, nil
}

// SignalKey returns the state key the signal watches.
func (s Signal) SignalKey() string {
	return s.Key
}

// IsMatch reports whether state holds a value for Key matching Value part by part.
func (s Signal) IsMatch(state SignalState) bool {
	actual, ok := state[s.Key]
	if !ok {
		return false
	}
	want := strings.Split(s.Value, "_")
	got := strings.Split(actual, "_")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != SignalAny && want[i] != got[i] {
			return false
		}
	}
	return true
}

// String returns "key=value".
func (s Signal) String() string {
	return s.Key + "=" + s.Value
}
