package actions

import (
	"net/url"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field-level messages shown inline next to the form inputs.
const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountTooSmall = "Amount must be greater than $0."
	MsgSelectStatus   = "Please select an invoice status."
)

// InvoiceForm is the raw shape of an invoice form submission. Date is never
// part of the form; it is stamped by the server on create.
type InvoiceForm struct {
	CustomerId string `form:"customerId" validate:"required"`
	Amount     string `form:"amount" validate:"required"`
	Status     string `form:"status" validate:"required,oneof=pending paid"`
}

// InvoiceInput is the validated, typed payload handed to the store.
type InvoiceInput struct {
	CustomerId  string
	AmountCents int64
	Status      models.InvoiceStatus
}

var validate = validator.New()

var fieldMessages = map[string]string{
	"CustomerId": MsgSelectCustomer,
	"Amount":     MsgAmountTooSmall,
	"Status":     MsgSelectStatus,
}

var formFieldNames = map[string]string{
	"CustomerId": "customerId",
	"Amount":     "amount",
	"Status":     "status",
}

// ParseInvoiceForm validates raw form values into a typed payload or a map
// of field name -> messages. Exactly one of the two returns is non-nil; the
// function itself never touches the store.
func ParseInvoiceForm(values url.Values) (*InvoiceInput, map[string][]string) {
	form := InvoiceForm{
		CustomerId: values.Get("customerId"),
		Amount:     values.Get("amount"),
		Status:     values.Get("status"),
	}

	fieldErrors := make(map[string][]string)
	if err := validate.Struct(form); err != nil {
		for field := range utils.ProcessValidationErrors(err) {
			name := formFieldNames[field]
			fieldErrors[name] = append(fieldErrors[name], fieldMessages[field])
		}
	}

	var amountCents int64
	if len(fieldErrors["amount"]) == 0 {
		amount, err := utils.StringToDecimal(form.Amount)
		if err != nil || !amount.GreaterThan(decimal.Zero) {
			fieldErrors["amount"] = append(fieldErrors["amount"], MsgAmountTooSmall)
		} else {
			// minor currency units, round(amount * 100)
			amountCents = amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	status, err := models.ParseInvoiceStatus(form.Status)
	if err != nil {
		return nil, map[string][]string{"status": {MsgSelectStatus}}
	}

	return &InvoiceInput{
		CustomerId:  form.CustomerId,
		AmountCents: amountCents,
		Status:      status,
	}, nil
}
