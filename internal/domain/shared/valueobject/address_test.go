package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("trims parts", func(t *testing.T) {
		addr, err := NewAddress(" 1 Main St ", " Pune", "MH ", " India ")
		require.NoError(t, err)
		assert.Equal(t, "1 Main St", addr.Street)
		assert.Equal(t, "Pune", addr.City)
		assert.Equal(t, "MH", addr.State)
		assert.Equal(t, "India", addr.Country)
		assert.Equal(t, "1 Main St, Pune, MH, India", addr.String())
	})

	t.Run("rejects oversized part", func(t *testing.T) {
		_, err := NewAddress(strings.Repeat("x", 201), "", "", "")
		assert.Error(t, err)
	})

	t.Run("empty address", func(t *testing.T) {
		addr, err := NewAddress("", "", "", "")
		require.NoError(t, err)
		assert.True(t, addr.IsEmpty())
		assert.Equal(t, "", addr.String())
	})
}

func TestAddress_Equals(t *testing.T) {
	a := Address{City: "Pune", Country: "India"}
	b := Address{City: "pune", Country: "INDIA"}
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(Address{City: "Mumbai"}))
}
