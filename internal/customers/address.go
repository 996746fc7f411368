package customers

import (
	"strings"

	"github.com/google/uuid"
)

type AddressType string

const (
	AddressShipping AddressType = "SHIPPING"
	AddressBilling  AddressType = "BILLING"
	AddressBoth     AddressType = "BOTH"
)

// Address is a child entity of Customer; the only entity in the model that
// supports an explicit delete.
type Address struct {
	ID         string
	CustomerID string
	Line1      string
	City       string
	Country    string
	Type       AddressType
}

func NewAddress(customerID, line1, city, country string, typ AddressType) *Address {
	return &Address{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Line1:      line1,
		City:       city,
		Country:    country,
		Type:       typ,
	}
}

func (a *Address) UpdateType(typ AddressType) {
	a.Type = typ
}

// DedupKey normalizes (line1, city, country) within the owning customer's
// context; two rows with the same key denote the same real-world address.
func (a *Address) DedupKey() string {
	return AddressDedupKey(a.CustomerID, a.Line1, a.City, a.Country)
}

func AddressDedupKey(customerID, line1, city, country string) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return customerID + "|" + norm(line1) + "|" + norm(city) + "|" + norm(country)
}
