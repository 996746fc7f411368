package orders

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTrackingNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^Unq\d{9}US$`)
	for i := 0; i < 50; i++ {
		tn, err := GenerateTrackingNumber("us")
		require.NoError(t, err)
		assert.Regexp(t, re, tn.Value())
	}
}

func TestGenerateTrackingNumberRejectsBadCountry(t *testing.T) {
	_, err := GenerateTrackingNumber("")
	assert.Error(t, err)
	_, err = GenerateTrackingNumber("USA")
	assert.Error(t, err)
}

func TestNewTrackingNumber(t *testing.T) {
	tn, err := NewTrackingNumber("Unq123456789GB")
	require.NoError(t, err)
	assert.Equal(t, "Unq123456789GB", tn.Value())

	for _, bad := range []string{"", "  ", "123456789GB", "Unq12345GB", "Unq123456789gb", "UNQ123456789GB"} {
		_, err := NewTrackingNumber(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestMaskCard(t *testing.T) {
	assert.Nil(t, MaskCard("", "Visa"))
	assert.Nil(t, MaskCard("   ", "Visa"))

	card := MaskCard("4111 1111 1111 1111", "Visa")
	require.NotNil(t, card)
	assert.Equal(t, "****1111", card.MaskedValue)
	assert.Equal(t, "Visa ****1111", card.String())

	short := MaskCard("42", "")
	require.NotNil(t, short)
	assert.Equal(t, "****", short.MaskedValue)
	assert.Equal(t, "****", short.String())
}
