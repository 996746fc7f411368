package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-eshop-core.git/internal/money"
)

func TestGenerateSKUIsStable(t *testing.T) {
	a := GenerateSKU("Wireless Mouse", "China")
	b := GenerateSKU("Wireless Mouse", "China")
	assert.Equal(t, a.Value(), b.Value())
}

func TestGenerateSKUIgnoresCase(t *testing.T) {
	a := GenerateSKU("Wireless Mouse", "China")
	b := GenerateSKU("WIRELESS MOUSE", "CHINA")
	assert.Equal(t, a.Value(), b.Value())
}

func TestGenerateSKUDistinguishesOrigin(t *testing.T) {
	a := GenerateSKU("Wireless Mouse", "China")
	b := GenerateSKU("Wireless Mouse", "Vietnam")
	assert.NotEqual(t, a.Value(), b.Value())
}

func TestGenerateSKUFormat(t *testing.T) {
	sku := GenerateSKU("Wireless Mouse", "China")
	assert.True(t, strings.HasPrefix(sku.Value(), "SKU"))
	assert.Len(t, sku.Value(), 15)
	assert.Equal(t, strings.ToUpper(sku.Value()), sku.Value())
}

func TestNewSKURejectsEmpty(t *testing.T) {
	_, err := NewSKU("   ")
	assert.Error(t, err)
}

func TestNewProduct(t *testing.T) {
	sku := GenerateSKU("Wireless Mouse", "China")
	p := NewProduct("Wireless Mouse", money.Parse("24.99", "USD"), sku, "China", "Germany")
	require.NotEmpty(t, p.ID)
	assert.Equal(t, "24.99 USD", p.Price.String())

	p.UpdatePrice(money.Parse("19.99", "USD"))
	assert.Equal(t, "19.99 USD", p.Price.String())
}
