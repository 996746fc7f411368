package orders

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var trackingRe = regexp.MustCompile(`^Unq\d{9}[A-Z]{2}$`)

// TrackingNumber: "Unq" + 9 digits + 2-letter country code.
type TrackingNumber struct {
	value string
}

func GenerateTrackingNumber(countryCode string) (TrackingNumber, error) {
	cc := strings.TrimSpace(countryCode)
	if len(cc) != 2 {
		return TrackingNumber{}, fmt.Errorf("country code must be 2 letters, got %q", countryCode)
	}
	digits := 100000000 + rand.Intn(900000000)
	return TrackingNumber{value: fmt.Sprintf("Unq%d%s", digits, strings.ToUpper(cc))}, nil
}

func NewTrackingNumber(value string) (TrackingNumber, error) {
	if strings.TrimSpace(value) == "" {
		return TrackingNumber{}, fmt.Errorf("tracking number cannot be empty")
	}
	if !trackingRe.MatchString(value) {
		return TrackingNumber{}, fmt.Errorf("invalid tracking number format: %s", value)
	}
	return TrackingNumber{value: value}, nil
}

func (t TrackingNumber) Value() string  { return t.value }
func (t TrackingNumber) String() string { return t.value }
