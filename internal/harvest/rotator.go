package harvest

import "errors"

// ErrKeysExhausted is returned once every configured API key has been
// burned by a quota error during a single logical fetch.
var ErrKeysExhausted = errors.New("all API keys exhausted")

var errNoKeys = errors.New("at least one API key is required")

// KeyRotator holds the ordered API key list for one logical fetch and a
// cursor into it. It is a small state machine: either active at some
// index, or exhausted. There is no backoff and no wrap-around; each key
// is tried at most once per fetch.
//
// A rotator is scoped to a single harvest run and is not safe for
// concurrent use.
type KeyRotator struct {
	keys      []string
	idx       int
	exhausted bool
}

// NewKeyRotator creates a rotator over the given ordered keys.
func NewKeyRotator(keys []string) (*KeyRotator, error) {
	if len(keys) == 0 {
		return nil, errNoKeys
	}
	return &KeyRotator{keys: keys}, nil
}

// Current returns the active key, or ErrKeysExhausted.
func (r *KeyRotator) Current() (string, error) {
	if r.exhausted {
		return "", ErrKeysExhausted
	}
	return r.keys[r.idx], nil
}

// Advance moves past the current key after a quota failure and returns
// the next one. Advancing past the last key flips the rotator into the
// exhausted state permanently (until Reset).
func (r *KeyRotator) Advance() (string, error) {
	if r.exhausted {
		return "", ErrKeysExhausted
	}
	r.idx++
	if r.idx >= len(r.keys) {
		r.exhausted = true
		return "", ErrKeysExhausted
	}
	return r.keys[r.idx], nil
}

// Exhausted reports whether every key has been tried.
func (r *KeyRotator) Exhausted() bool {
	return r.exhausted
}

// Remaining returns how many keys are still untried, including the
// current one.
func (r *KeyRotator) Remaining() int {
	if r.exhausted {
		return 0
	}
	return len(r.keys) - r.idx
}

// Reset re-arms the rotator for the next logical fetch.
func (r *KeyRotator) Reset() {
	r.idx = 0
	r.exhausted = false
}
