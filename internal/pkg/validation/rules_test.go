package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.domain.org",
		"user+tag@example.io",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainstring",
		"@example.com",
		"user@",
		"user@domain",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), "expected %q to be invalid", email)
	}
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("secret123"))
	assert.True(t, IsStrongPassword("a1b2c3d4"))

	assert.False(t, IsStrongPassword("short1"), "below minimum length")
	assert.False(t, IsStrongPassword("onlyletters"), "no digit")
	assert.False(t, IsStrongPassword("12345678"), "no letter")
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Ada"))
	assert.False(t, IsValidName("A"))
	assert.False(t, IsValidName(strings.Repeat("x", NameMaxLength+1)))
}

func TestIsValidTitle(t *testing.T) {
	assert.True(t, IsValidTitle("Intro to Go"))
	assert.False(t, IsValidTitle("Go"))
	assert.False(t, IsValidTitle(strings.Repeat("x", TitleMaxLength+1)))
}
