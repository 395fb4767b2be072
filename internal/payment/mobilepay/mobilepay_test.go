package mobilepay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharge(t *testing.T) {
	d := New("merchant-1", "secret-key")

	ref, err := d.Charge("abc123def456", 150000, "+237650000001")
	assert.NoError(t, err)
	assert.Regexp(t, "^MP-[0-9a-f]{16}$", ref)

	// Same inputs sign identically
	again, err := d.Charge("abc123def456", 150000, "+237650000001")
	assert.NoError(t, err)
	assert.Equal(t, ref, again)

	// A different key changes the signature
	other := New("merchant-1", "other-key")
	otherRef, err := other.Charge("abc123def456", 150000, "+237650000001")
	assert.NoError(t, err)
	assert.NotEqual(t, ref, otherRef)
}

func TestCharge_Validation(t *testing.T) {
	d := New("merchant-1", "secret-key")

	_, err := d.Charge("", 1000, "+237650000001")
	assert.Error(t, err)

	_, err = d.Charge("ref", 0, "+237650000001")
	assert.Error(t, err)

	_, err = d.Charge("ref", -500, "+237650000001")
	assert.Error(t, err)

	_, err = d.Charge("ref", 1000, "12345")
	assert.Error(t, err)
}
