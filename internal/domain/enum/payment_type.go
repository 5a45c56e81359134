package enum

import "strings"

// PaymentType is the payment label stored on transactions and expected payments.
// Values are the labels the shop uses on receipts.
type PaymentType string

const (
	PaymentCash        PaymentType = "nakit"
	PaymentCard        PaymentType = "kart"
	PaymentCredit      PaymentType = "kredi"
	PaymentCashAndCard PaymentType = "nakit+kart"
	PaymentMailOrder   PaymentType = "mail order"
	// PaymentUpfrontAndInstallment marks a sale with both a down payment and installments
	PaymentUpfrontAndInstallment PaymentType = "pesin+taksit"
	PaymentInstallment           PaymentType = "taksit"
)

// Normalize lower-cases and trims the label
func (p PaymentType) Normalize() PaymentType {
	return PaymentType(strings.ToLower(strings.TrimSpace(string(p))))
}

// IsCard reports whether the label is settled through a card provider
func (p PaymentType) IsCard() bool {
	switch p.Normalize() {
	case PaymentCard, PaymentCredit:
		return true
	}
	return false
}

// OrDefault returns p, or def when p is empty
func (p PaymentType) OrDefault(def PaymentType) PaymentType {
	if strings.TrimSpace(string(p)) == "" {
		return def
	}
	return p.Normalize()
}
