package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-eshop-core.git/internal/domain"
)

// Customer is the aggregate root for personal info; addresses reference it.
type Customer struct {
	domain.EventBuffer

	ID                       string
	FirstName                string
	LastName                 string
	Email                    Email
	Phone                    Phone
	DefaultShippingAddressID string
	DefaultBillingAddressID  string
	CreatedAt                time.Time
}

func NewCustomer(firstName, lastName string, email Email, phone Phone) *Customer {
	c := &Customer{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}
	c.Raise(CustomerCreated{CustomerID: c.ID, Email: email.Value(), At: c.CreatedAt})
	return c
}

func (c *Customer) UpdateProfile(firstName, lastName string, phone Phone) {
	c.FirstName = firstName
	c.LastName = lastName
	c.Phone = phone
}

func (c *Customer) SetDefaultShippingAddress(addressID string) {
	c.DefaultShippingAddressID = addressID
}

func (c *Customer) SetDefaultBillingAddress(addressID string) {
	c.DefaultBillingAddressID = addressID
}

type CustomerCreated struct {
	CustomerID string
	Email      string
	At         time.Time
}

func (e CustomerCreated) Name() string          { return "CustomerCreated" }
func (e CustomerCreated) OccurredAt() time.Time { return e.At }
