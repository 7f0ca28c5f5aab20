package common

import (
	"fmt"
	"strings"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

// Some is a shortcut for NewOptional(value, true).
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, IsPresent: true}
}

// None returns an absent value of type T.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

type Email string

func NewEmail(rawEmail string) Email {
	return Email(strings.ToLower(strings.TrimSpace(rawEmail)))
}

type PhoneNumber string

// NewPhoneNumber drops formatting characters, keeping digits and a leading plus sign.
func NewPhoneNumber(raw string) PhoneNumber {
	var b strings.Builder
	for ix, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && ix == 0:
			b.WriteRune(r)
		}
	}
	return PhoneNumber(b.String())
}
