package actions_test

import (
	"net/url"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/actions"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
)

func invoiceForm(customerId, amount, status string) url.Values {
	v := url.Values{}
	if customerId != "" {
		v.Set("customerId", customerId)
	}
	if amount != "" {
		v.Set("amount", amount)
	}
	if status != "" {
		v.Set("status", status)
	}
	return v
}

func TestParseInvoiceFormValid(t *testing.T) {
	input, fieldErrors := actions.ParseInvoiceForm(invoiceForm("c1", "10.50", "pending"))
	if fieldErrors != nil {
		t.Fatalf("unexpected field errors: %v", fieldErrors)
	}
	if input.CustomerId != "c1" {
		t.Fatalf("expected customerId c1; got %q", input.CustomerId)
	}
	if input.AmountCents != 1050 {
		t.Fatalf("expected 1050 cents; got %d", input.AmountCents)
	}
	if input.Status != models.InvoiceStatusPending {
		t.Fatalf("expected pending; got %q", input.Status)
	}
}

func TestParseInvoiceFormRoundsToMinorUnits(t *testing.T) {
	cases := []struct {
		amount string
		cents  int64
	}{
		{"10.50", 1050},
		{"10.555", 1056},
		{"10.554", 1055},
		{"5", 500},
		{"0.01", 1},
	}
	for _, tc := range cases {
		input, fieldErrors := actions.ParseInvoiceForm(invoiceForm("c1", tc.amount, "paid"))
		if fieldErrors != nil {
			t.Fatalf("amount %q: unexpected field errors: %v", tc.amount, fieldErrors)
		}
		if input.AmountCents != tc.cents {
			t.Fatalf("amount %q: expected %d cents; got %d", tc.amount, tc.cents, input.AmountCents)
		}
	}
}

func TestParseInvoiceFormMissingCustomer(t *testing.T) {
	input, fieldErrors := actions.ParseInvoiceForm(invoiceForm("", "5", "paid"))
	if input != nil {
		t.Fatalf("expected nil input; got %+v", input)
	}
	msgs := fieldErrors["customerId"]
	if len(msgs) != 1 || msgs[0] != actions.MsgSelectCustomer {
		t.Fatalf("expected [%q] for customerId; got %v", actions.MsgSelectCustomer, msgs)
	}
	if _, ok := fieldErrors["amount"]; ok {
		t.Fatalf("amount should not carry an error: %v", fieldErrors)
	}
}

func TestParseInvoiceFormAmountNotPositive(t *testing.T) {
	for _, amount := range []string{"0", "-3", "0.00", "abc"} {
		input, fieldErrors := actions.ParseInvoiceForm(invoiceForm("c1", amount, "pending"))
		if input != nil {
			t.Fatalf("amount %q: expected nil input", amount)
		}
		msgs := fieldErrors["amount"]
		if len(msgs) != 1 || msgs[0] != actions.MsgAmountTooSmall {
			t.Fatalf("amount %q: expected [%q]; got %v", amount, actions.MsgAmountTooSmall, msgs)
		}
	}
}

func TestParseInvoiceFormBadStatus(t *testing.T) {
	for _, status := range []string{"", "draft", "PAID"} {
		input, fieldErrors := actions.ParseInvoiceForm(invoiceForm("c1", "5", status))
		if input != nil {
			t.Fatalf("status %q: expected nil input", status)
		}
		msgs := fieldErrors["status"]
		if len(msgs) != 1 || msgs[0] != actions.MsgSelectStatus {
			t.Fatalf("status %q: expected [%q]; got %v", status, actions.MsgSelectStatus, msgs)
		}
	}
}

func TestParseInvoiceFormCollectsAllFieldErrors(t *testing.T) {
	input, fieldErrors := actions.ParseInvoiceForm(url.Values{})
	if input != nil {
		t.Fatalf("expected nil input")
	}
	for _, field := range []string{"customerId", "amount", "status"} {
		if len(fieldErrors[field]) == 0 {
			t.Fatalf("expected an error for %s; got %v", field, fieldErrors)
		}
	}
}
