package crypto

import (
	"errors"
	"fmt"
	"slices"
)

// maxResampleAttempts bounds the redraws spent looking for a character that
// is not already in the password.
const maxResampleAttempts = 1024

// ErrPoolExhausted is returned when a character kind cannot supply another
// unused character.
var ErrPoolExhausted = errors.New("character pool exhausted")

// GeneratePassword validates req and generates a password from the
// operating system's secure random source.
func GeneratePassword(req Requirements) (string, error) {
	return Generate(req, NewSource())
}

// Generate produces a password satisfying Validate(req) using src.
//
// The result holds exactly Digits digits and Specials special characters.
// The remaining letters are split between the two cases with lowercase
// taking the smaller half. Unless AllowRepeats is set no character is used
// twice; requirements that cannot be met without repeats fail with
// ErrPoolExhausted.
func Generate(req Requirements, src Source) (string, error) {
	req = Validate(req)
	length := int(req.Length)

	t, err := newKindTracker(req)
	if err != nil {
		return "", err
	}

	password := make([]byte, length)
	var seen [256]bool

	start := 0
	if req.FirstIsLetter {
		kind := KindLowercase
		if src.IntN(2) == 0 {
			kind = KindUppercase
		}
		pool := kind.Pool()
		ch := pool[src.IntN(len(pool))]
		password[0] = ch
		seen[ch] = true
		t.consume(kind)
		start = 1
	}

	open := make([]int, 0, length-start)
	for i := start; i < length; i++ {
		open = append(open, i)
	}

	for range length - start {
		kind := t.active[src.IntN(len(t.active))]
		t.consume(kind)

		ch, err := draw(kind, src, &seen, req.AllowRepeats)
		if err != nil {
			return "", err
		}

		slot := src.IntN(len(open))
		password[open[slot]] = ch
		open[slot] = open[len(open)-1]
		open = open[:len(open)-1]
	}

	return string(password), nil
}

// draw picks a character of kind, redrawing while the pick is already in
// the password.
func draw(kind CharacterKind, src Source, seen *[256]bool, allowRepeats bool) (byte, error) {
	pool := kind.Pool()
	for range maxResampleAttempts {
		ch := pool[src.IntN(len(pool))]
		if allowRepeats || !seen[ch] {
			seen[ch] = true
			return ch, nil
		}
	}
	return 0, fmt.Errorf("%w: no unused %s character after %d attempts", ErrPoolExhausted, kind, maxResampleAttempts)
}

// kindTracker holds the per-kind quota and the kinds that still have room.
type kindTracker struct {
	quota  [len(Kinds)]int
	used   [len(Kinds)]int
	active []CharacterKind
}

func newKindTracker(req Requirements) (*kindTracker, error) {
	t := &kindTracker{active: make([]CharacterKind, 0, len(Kinds))}
	for _, kind := range Kinds {
		quota := req.quota(kind)
		if quota == 0 {
			continue
		}
		if !req.AllowRepeats && quota > len(kind.Pool()) {
			return nil, fmt.Errorf("%w: %d %s requested from a pool of %d without repeats",
				ErrPoolExhausted, quota, kind, len(kind.Pool()))
		}
		t.quota[kind] = quota
		t.active = append(t.active, kind)
	}
	return t, nil
}

// consume records one character of kind and retires the kind once its
// quota is met.
func (t *kindTracker) consume(kind CharacterKind) {
	t.used[kind]++
	if t.used[kind] < t.quota[kind] {
		return
	}
	if i := slices.Index(t.active, kind); i >= 0 {
		t.active = slices.Delete(t.active, i, i+1)
	}
}
