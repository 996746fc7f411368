package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-eshop-core.git/internal/money"
)

// Product is a catalog item. The SKU is a stable hash of (name, origin), so
// identical SKU implies identical product.
type Product struct {
	ID               string
	Name             string
	Price            money.Money
	SKU              SKU
	ManufacturedFrom string
	ShippedFrom      string
}

func NewProduct(name string, price money.Money, sku SKU, manufacturedFrom, shippedFrom string) *Product {
	return &Product{
		ID:               uuid.NewString(),
		Name:             name,
		Price:            price,
		SKU:              sku,
		ManufacturedFrom: manufacturedFrom,
		ShippedFrom:      shippedFrom,
	}
}

func (p *Product) UpdatePrice(newPrice money.Money) {
	p.Price = newPrice
}

// SKU value object: "SKU" + first 12 hex chars of sha256(name:origin).
type SKU struct {
	value string
}

func GenerateSKU(name, manufacturedFrom string) SKU {
	input := strings.ToLower(name) + ":" + strings.ToLower(manufacturedFrom)
	sum := sha256.Sum256([]byte(input))
	return SKU{value: "SKU" + strings.ToUpper(hex.EncodeToString(sum[:]))[:12]}
}

func NewSKU(value string) (SKU, error) {
	if strings.TrimSpace(value) == "" {
		return SKU{}, fmt.Errorf("sku cannot be empty")
	}
	return SKU{value: value}, nil
}

func (s SKU) Value() string  { return s.value }
func (s SKU) String() string { return s.value }
