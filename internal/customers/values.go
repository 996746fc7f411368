package customers

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email is a validated, normalized (lowercase) address. Constructible only
// through NewEmail.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	e := strings.ToLower(strings.TrimSpace(raw))
	if e == "" {
		return Email{}, fmt.Errorf("email cannot be empty")
	}
	if !emailRe.MatchString(e) {
		return Email{}, fmt.Errorf("invalid email format: %s", e)
	}
	return Email{value: e}, nil
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }

var phoneCleanRe = regexp.MustCompile(`[^\d+]`)

// Phone keeps digits and a leading plus only.
type Phone struct {
	value string
}

func NewPhone(raw string) (Phone, error) {
	p := phoneCleanRe.ReplaceAllString(raw, "")
	if p == "" {
		return Phone{}, fmt.Errorf("phone cannot be empty")
	}
	if len(p) < 10 {
		return Phone{}, fmt.Errorf("phone too short: %s", p)
	}
	return Phone{value: p}, nil
}

func (p Phone) Value() string  { return p.value }
func (p Phone) String() string { return p.value }
