package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "bob@example.com", NormalizeEmail("bob@example.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestAllowedOwners(t *testing.T) {
	// No partner: the user only sees their own data.
	assert.Equal(t, []string{"u1"}, allowedOwners("u1", ""))

	// A grant pointing back at the user must not duplicate the id.
	assert.Equal(t, []string{"u1"}, allowedOwners("u1", "u1"))

	// Accepted partner grant widens the set to exactly two owners.
	assert.Equal(t, []string{"u1", "u2"}, allowedOwners("u1", "u2"))
}
