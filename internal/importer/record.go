package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-eshop-core.git/internal/money"
)

const (
	columnCount   = 21
	unknownOrigin = "Unknown"
	defaultPhone  = "0000000000"
)

// Record is one raw dataset row; transient, never persisted directly.
type Record struct {
	FirstName         string
	LastName          string
	ShippingAddress   string
	ShippingCity      string
	ShippingCountry   string
	CardNumber        string
	CardType          string
	BillingCity       string
	BillingAddress    string
	BillingCountry    string
	TrackingNumber    string
	ItemName          string
	PricePerItem      money.Money
	PurchaseDate      string
	EstimatedDelivery string
	ItemAmount        int
	ShippedFrom       string
	ManufacturedFrom  string
	Phone             string
	Email             string
}

// parseRow maps one CSV row onto a Record. Column order mirrors the
// dataset: id, first name, last name, shipping address/city/country, card
// number/type, billing city/address/country, tracking number, item name,
// price, purchase date, estimated delivery, amount, shipped from,
// manufactured from, phone, email.
func parseRow(row []string) (Record, error) {
	if len(row) < columnCount {
		return Record{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(row))
	}
	get := func(i int) string { return strings.TrimSpace(row[i]) }

	amount, err := strconv.Atoi(get(16))
	if err != nil {
		return Record{}, fmt.Errorf("invalid item amount %q: %w", get(16), err)
	}

	r := Record{
		FirstName:         get(1),
		LastName:          get(2),
		ShippingAddress:   get(3),
		ShippingCity:      get(4),
		ShippingCountry:   get(5),
		CardNumber:        get(6),
		CardType:          get(7),
		BillingCity:       get(8),
		BillingAddress:    get(9),
		BillingCountry:    get(10),
		TrackingNumber:    get(11),
		ItemName:          get(12),
		PricePerItem:      money.Parse(get(13), "USD"),
		PurchaseDate:      get(14),
		EstimatedDelivery: get(15),
		ItemAmount:        amount,
		ShippedFrom:       get(17),
		ManufacturedFrom:  get(18),
		Phone:             get(19),
		Email:             get(20),
	}
	if r.Email == "" {
		return Record{}, fmt.Errorf("row has no email")
	}
	if r.Phone == "" {
		r.Phone = defaultPhone
	}
	if r.ManufacturedFrom == "" {
		r.ManufacturedFrom = unknownOrigin
	}
	if r.ShippedFrom == "" {
		r.ShippedFrom = unknownOrigin
	}
	return r, nil
}

var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006", time.RFC3339}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
