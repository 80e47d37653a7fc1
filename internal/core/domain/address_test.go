package domain_test

import (
	"testing"

	"github.com/cardsonbase/cards-tcg-store/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() domain.Address {
	return domain.Address{
		Name:   "Ash Ketchum",
		Email:  "ash@example.com",
		Street: "1 Victory Rd",
		City:   "Shreveport",
		State:  "LA",
		ZIP:    "71101",
	}
}

func TestAddressValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, validAddress().Validate())
	})

	t.Run("LowercaseStateAccepted", func(t *testing.T) {
		a := validAddress()
		a.State = "la"
		require.NoError(t, a.Validate())
	})

	t.Run("MissingFields", func(t *testing.T) {
		a := validAddress()
		a.Name = ""
		a.City = "  "
		err := a.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
		assert.ErrorIs(t, err, domain.ErrMissingField)
	})

	t.Run("BadState", func(t *testing.T) {
		a := validAddress()
		a.State = "ZZ"
		err := a.Validate()
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("BadZIP", func(t *testing.T) {
		for _, zip := range []string{"1234", "123456", "ABCDE", "12 45"} {
			a := validAddress()
			a.ZIP = zip
			err := a.Validate()
			assert.ErrorIs(t, err, domain.ErrInvalidZIP, "zip %q", zip)
		}
	})

	t.Run("BadEmail", func(t *testing.T) {
		a := validAddress()
		a.Email = "not-an-email"
		err := a.Validate()
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})
}
