package crypto

import "math"

const (
	// MinLength is the shortest password Validate will allow.
	MinLength = 10

	// MaxRepeatLength is the length ceiling when repeated characters are
	// allowed.
	MaxRepeatLength = math.MaxUint16

	// reservedLetters holds one uppercase and one lowercase slot.
	reservedLetters = 2
)

// Requirements describes the length and composition of a password.
type Requirements struct {
	Length        uint16
	Digits        uint16
	Specials      uint16
	FirstIsLetter bool
	AllowRepeats  bool
}

// DefaultRequirements returns 16 characters with one digit, one special
// character and a leading letter.
func DefaultRequirements() Requirements {
	return Requirements{
		Length:        16,
		Digits:        1,
		Specials:      1,
		FirstIsLetter: true,
	}
}

// MaxLength returns the length ceiling for r before validation. Without
// repeats every character must be distinct, so the ceiling is the size of
// the pools r actually draws from.
func (r Requirements) MaxLength() uint16 {
	if r.AllowRepeats {
		return MaxRepeatLength
	}
	maxLen := uint16(len(Uppercase) + len(Lowercase))
	if r.Specials > 0 {
		maxLen += uint16(len(SpecialCharacters))
	}
	if r.Digits > 0 {
		maxLen += uint16(len(Digits))
	}
	return maxLen
}

// Validate returns a copy of r clamped to sane values:
//
//   - Length is at least MinLength and at most r.MaxLength().
//   - Two slots are always left for one uppercase and one lowercase letter.
//   - Digits and Specials share the remaining slots. When both ask for more
//     than is available, Digits wins: it may take every remaining slot but
//     one, and Specials gets what is left.
//
// Validate never fails and Validate(Validate(r)) == Validate(r).
func Validate(r Requirements) Requirements {
	length := max(MinLength, min(r.Length, r.MaxLength()))

	nonLetters := length - reservedLetters
	reservedDigits := min(r.Digits, nonLetters-1)
	maxSpecials := nonLetters - reservedDigits
	maxDigits := nonLetters - maxSpecials

	return Requirements{
		Length:        length,
		Digits:        min(r.Digits, maxDigits),
		Specials:      min(r.Specials, maxSpecials),
		FirstIsLetter: r.FirstIsLetter,
		AllowRepeats:  r.AllowRepeats,
	}
}

// Validate is a convenience for the package-level Validate.
func (r Requirements) Validate() Requirements {
	return Validate(r)
}

// Letters returns the number of letter slots in r.
func (r Requirements) Letters() uint16 {
	return r.Length - r.Digits - r.Specials
}

// quota returns how many characters of kind r asks for. r must be validated.
func (r Requirements) quota(kind CharacterKind) int {
	letters := int(r.Letters())
	switch kind {
	case KindDigit:
		return int(r.Digits)
	case KindSpecial:
		return int(r.Specials)
	case KindLowercase:
		return letters / 2
	case KindUppercase:
		return letters - letters/2
	}
	return 0
}
