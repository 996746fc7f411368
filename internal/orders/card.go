package orders

import "strings"

// PaymentCard keeps only the last 4 digits of a card. Full numbers are never
// stored.
type PaymentCard struct {
	MaskedValue string
	CardType    string
}

// MaskCard builds a masked card from raw input; returns nil for empty input
// so callers can pass the absence through unchanged.
func MaskCard(cardNumber, cardType string) *PaymentCard {
	if strings.TrimSpace(cardNumber) == "" {
		return nil
	}
	cleaned := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(cardNumber)
	masked := "****"
	if len(cleaned) >= 4 {
		masked = "****" + cleaned[len(cleaned)-4:]
	}
	return &PaymentCard{MaskedValue: masked, CardType: cardType}
}

func (c *PaymentCard) String() string {
	if c.CardType != "" {
		return c.CardType + " " + c.MaskedValue
	}
	return c.MaskedValue
}
