package crypto

import (
	"errors"
	"strings"
)

// Character pools used when generating a password. Each pool is fixed and
// no character appears in more than one pool.
const (
	Uppercase         = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase         = "abcdefghijklmnopqrstuvwxyz"
	Digits            = "0123456789"
	SpecialCharacters = `-./\:'+&,@$!_#%~`
)

var ErrUnknownKind = errors.New("unknown character kind")

// CharacterKind identifies one of the character pools.
type CharacterKind int

const (
	KindUppercase CharacterKind = iota
	KindLowercase
	KindDigit
	KindSpecial
)

// Kinds lists every CharacterKind in pool order.
var Kinds = [...]CharacterKind{KindUppercase, KindLowercase, KindDigit, KindSpecial}

// Pool returns the characters belonging to k.
func (k CharacterKind) Pool() string {
	switch k {
	case KindUppercase:
		return Uppercase
	case KindLowercase:
		return Lowercase
	case KindDigit:
		return Digits
	case KindSpecial:
		return SpecialCharacters
	}
	return ""
}

func (k CharacterKind) String() string {
	switch k {
	case KindUppercase:
		return "uppercase"
	case KindLowercase:
		return "lowercase"
	case KindDigit:
		return "numbers"
	case KindSpecial:
		return "specials"
	}
	return "unknown"
}

// IsLetter reports whether k is one of the two letter pools.
func (k CharacterKind) IsLetter() bool {
	return k == KindUppercase || k == KindLowercase
}

// ParseKind resolves a pool name as accepted by the CLI and the API.
func ParseKind(name string) (CharacterKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uppercase", "upper":
		return KindUppercase, nil
	case "lowercase", "lower":
		return KindLowercase, nil
	case "numbers", "digits", "decimal":
		return KindDigit, nil
	case "specials", "special", "special-characters", "special_characters":
		return KindSpecial, nil
	}
	return 0, ErrUnknownKind
}

// KindOf classifies a single character. ok is false for characters outside
// every pool.
func KindOf(ch byte) (kind CharacterKind, ok bool) {
	for _, k := range Kinds {
		if strings.IndexByte(k.Pool(), ch) >= 0 {
			return k, true
		}
	}
	return 0, false
}

// KindCounts tallies how many characters of each kind a password holds.
type KindCounts struct {
	Uppercase int
	Lowercase int
	Digits    int
	Specials  int
	Other     int
}

// Letters returns the combined uppercase and lowercase count.
func (c KindCounts) Letters() int {
	return c.Uppercase + c.Lowercase
}

// CountKinds tallies the character kinds present in password.
func CountKinds(password string) KindCounts {
	var c KindCounts
	for i := 0; i < len(password); i++ {
		kind, ok := KindOf(password[i])
		if !ok {
			c.Other++
			continue
		}
		switch kind {
		case KindUppercase:
			c.Uppercase++
		case KindLowercase:
			c.Lowercase++
		case KindDigit:
			c.Digits++
		case KindSpecial:
			c.Specials++
		}
	}
	return c
}
