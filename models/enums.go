package models

import "errors"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (t InvoiceStatus) IsValid() bool {
	switch t {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return true
	}
	return false
}

// convert raw form value to enum type
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch s {
	case "pending":
		return InvoiceStatusPending, nil
	case "paid":
		return InvoiceStatusPaid, nil
	default:
		return "", errors.New("invalid invoice status")
	}
}
