package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	assert := require.New(t)

	optionalInt := NewOptional(42, true)
	assert.Equal(42, optionalInt.Value)
	assert.True(optionalInt.IsPresent)

	optionalString := NewOptional("foo", false)
	assert.Equal("foo", optionalString.Value)
	assert.False(optionalString.IsPresent)

	assert.Equal(NewOptional(7, true), Some(7))
	assert.False(None[string]().IsPresent)
}

func TestNewEmail(t *testing.T) {
	assert := require.New(t)
	assert.Equal(Email("jane@example.com"), NewEmail(" Jane@Example.COM "))
}

func TestNewPhoneNumber(t *testing.T) {
	cases := []struct {
		raw      string
		expected PhoneNumber
	}{
		{raw: "+1 (555) 010-0199", expected: "+15550100199"},
		{raw: "555.010.0199", expected: "5550100199"},
		{raw: " +44 20 7946 0958 ", expected: "+442079460958"},
		{raw: "1+2", expected: "12"},
	}

	for _, testcase := range cases {
		t.Run(testcase.raw, func(t *testing.T) {
			require.Equal(t, testcase.expected, NewPhoneNumber(testcase.raw))
		})
	}
}
