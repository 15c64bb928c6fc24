package actions

import (
	"context"
	"errors"
	"net/url"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/sirupsen/logrus"
)

const InvoicesPath = "/dashboard/invoices"

// The update path reuses the create wording on purpose; changing either
// message means changing both constants together.
const (
	MsgMissingFieldsCreate = "Missing Fields. Failed to Create Invoice."
	MsgMissingFieldsUpdate = MsgMissingFieldsCreate

	msgDatabaseError = "Database Error: Failed to Update Invoice. "
	msgUnauthorized  = "Unauthorized."
)

var (
	ErrDeleteInvoice = errors.New("failed to delete invoice")
	ErrUnauthorized  = errors.New("unauthorized")
)

// State is what a form renders after a non-redirecting action: inline field
// errors plus an overall message.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Result is the outcome of one action invocation. A non-empty Redirect is a
// navigational handoff to that path; State is only set when the caller keeps
// rendering the form.
type Result struct {
	State    *State
	Redirect string
}

// InvoiceStore performs exactly one persistence statement per call.
type InvoiceStore interface {
	Insert(ctx context.Context, input *models.NewInvoice) (*models.Invoice, error)
	Update(ctx context.Context, id string, input *models.NewInvoice) error
	Delete(ctx context.Context, id string) error
}

// ListInvalidator marks the invoices-listing view stale after a mutation.
type ListInvalidator interface {
	InvalidateInvoiceList(ctx context.Context) error
}

type InvoiceActions struct {
	store  InvoiceStore
	lists  ListInvalidator
	logger *logrus.Logger
}

func NewInvoiceActions(store InvoiceStore, lists ListInvalidator, logger *logrus.Logger) *InvoiceActions {
	return &InvoiceActions{
		store:  store,
		lists:  lists,
		logger: logger,
	}
}

// CreateInvoice validates the form, inserts a row and redirects to the
// invoices listing. Validation failures and store failures are returned as
// renderable state; nothing is persisted unless validation passed.
func (a *InvoiceActions) CreateInvoice(ctx context.Context, prev *State, form url.Values) Result {
	if !callerSignedIn(ctx) {
		return Result{State: &State{Message: msgUnauthorized}}
	}

	input, fieldErrors := ParseInvoiceForm(form)
	if fieldErrors != nil {
		return Result{State: &State{
			Errors:  fieldErrors,
			Message: MsgMissingFieldsCreate,
		}}
	}

	_, err := a.store.Insert(ctx, &models.NewInvoice{
		CustomerId: input.CustomerId,
		Amount:     input.AmountCents,
		Status:     input.Status,
	})
	if err != nil {
		return Result{State: &State{Message: msgDatabaseError + err.Error()}}
	}

	a.invalidateList(ctx, "CreateInvoice")
	return Result{Redirect: InvoicesPath}
}

// UpdateInvoice overwrites customer, amount and status on the row. A missing
// id is not detected here: the store reports zero rows affected and the
// action still redirects.
func (a *InvoiceActions) UpdateInvoice(ctx context.Context, id string, prev *State, form url.Values) Result {
	if !callerSignedIn(ctx) {
		return Result{State: &State{Message: msgUnauthorized}}
	}

	input, fieldErrors := ParseInvoiceForm(form)
	if fieldErrors != nil {
		return Result{State: &State{
			Errors:  fieldErrors,
			Message: MsgMissingFieldsUpdate,
		}}
	}

	err := a.store.Update(ctx, id, &models.NewInvoice{
		CustomerId: input.CustomerId,
		Amount:     input.AmountCents,
		Status:     input.Status,
	})
	if err != nil {
		return Result{State: &State{Message: msgDatabaseError + err.Error()}}
	}

	a.invalidateList(ctx, "UpdateInvoice")
	return Result{Redirect: InvoicesPath}
}

// DeleteInvoice removes the row and marks the listing stale. Unlike create
// and update, a store failure is logged and returned to the caller instead
// of being folded into renderable state; delete is invoked from the listing
// itself, so there is no form to re-render and no redirect either.
func (a *InvoiceActions) DeleteInvoice(ctx context.Context, id string) error {
	if !callerSignedIn(ctx) {
		return ErrUnauthorized
	}

	if err := a.store.Delete(ctx, id); err != nil {
		config.LogError(a.logger, "invoice.go", "DeleteInvoice", "store.Delete", id, err)
		return ErrDeleteInvoice
	}

	a.invalidateList(ctx, "DeleteInvoice")
	return nil
}

// mutations must not be reachable from unauthenticated contexts; the HTTP
// layer enforces this too, but the dispatcher is the authoritative boundary
func callerSignedIn(ctx context.Context) bool {
	email, ok := utils.GetUsernameFromContext(ctx)
	return ok && email != ""
}

// staleness marking is best effort; a failed invalidation only means one
// stale read, not a failed mutation
func (a *InvoiceActions) invalidateList(ctx context.Context, funcName string) {
	if err := a.lists.InvalidateInvoiceList(ctx); err != nil {
		config.LogError(a.logger, "invoice.go", funcName, "InvalidateInvoiceList", nil, err)
	}
}
