package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Outcome of checking a single user supplied string.
// Values match the wire format exactly, so they render as-is in responses.
type Outcome string

const (
	Success           Outcome = "Success"
	Empty             Outcome = "Empty"
	TooShort          Outcome = "TooShort"
	TooLong           Outcome = "TooLong"
	InvalidCharacters Outcome = "InvalidCharacters"

	// Unknown is reserved for unexpected internal failures.
	// Validation never propagates a fault to the caller.
	Unknown Outcome = "Unknown"
)

const (
	loginMinLen    = 6
	loginMaxLen    = 14
	nicknameMinLen = 3
	nicknameMaxLen = 14
)

// Login checks an account login. Any characters are allowed,
// only emptiness and length are restricted.
func Login(login string) Outcome {
	if strings.TrimSpace(login) == "" {
		return Empty
	}

	switch n := utf8.RuneCountInString(login); {
	case n < loginMinLen:
		return TooShort
	case n > loginMaxLen:
		return TooLong
	}

	return Success
}

// Nickname checks a game profile nickname. Length bounds are checked
// before the character rule; only letters and digits are allowed.
func Nickname(nickname string) Outcome {
	if strings.TrimSpace(nickname) == "" {
		return Empty
	}

	switch n := utf8.RuneCountInString(nickname); {
	case n < nicknameMinLen:
		return TooShort
	case n > nicknameMaxLen:
		return TooLong
	}

	for _, r := range nickname {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return InvalidCharacters
		}
	}

	return Success
}
