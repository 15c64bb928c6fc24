package actions_test

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/actions"
	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
)

type fakeStore struct {
	inserted []*models.NewInvoice
	updated  map[string]*models.NewInvoice
	deleted  []string

	insertErr error
	updateErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{updated: make(map[string]*models.NewInvoice)}
}

func (s *fakeStore) Insert(ctx context.Context, input *models.NewInvoice) (*models.Invoice, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.inserted = append(s.inserted, input)
	return &models.Invoice{
		CustomerId: input.CustomerId,
		Amount:     input.Amount,
		Status:     input.Status,
	}, nil
}

func (s *fakeStore) Update(ctx context.Context, id string, input *models.NewInvoice) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	// a missing id is indistinguishable from a hit: the real store reports
	// zero rows affected without an error
	s.updated[id] = input
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) InvalidateInvoiceList(ctx context.Context) error {
	f.calls++
	return f.err
}

func newActions(store *fakeStore, lists *fakeInvalidator) *actions.InvoiceActions {
	return actions.NewInvoiceActions(store, lists, config.GetLogger())
}

func signedInCtx() context.Context {
	return utils.SetUsernameInContext(context.Background(), "admin@dashboard.local")
}

func TestInvoiceActionsRejectAnonymousCallers(t *testing.T) {
	store := newFakeStore()
	lists := &fakeInvalidator{}
	a := newActions(store, lists)
	ctx := context.Background()

	res := a.CreateInvoice(ctx, nil, invoiceForm("c1", "5", "paid"))
	if res.Redirect != "" || res.State == nil || res.State.Message != "Unauthorized." {
		t.Fatalf("expected unauthorized state from create; got %+v", res)
	}
	res = a.UpdateInvoice(ctx, "inv-1", nil, invoiceForm("c1", "5", "paid"))
	if res.Redirect != "" || res.State == nil || res.State.Message != "Unauthorized." {
		t.Fatalf("expected unauthorized state from update; got %+v", res)
	}
	if err := a.DeleteInvoice(ctx, "inv-1"); !errors.Is(err, actions.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized from delete; got %v", err)
	}
	if len(store.inserted)+len(store.updated)+len(store.deleted) != 0 {
		t.Fatalf("anonymous calls must not reach the store")
	}
	if lists.calls != 0 {
		t.Fatalf("anonymous calls must not invalidate the listing")
	}
}

func TestCreateInvoiceSucceedsAndRedirects(t *testing.T) {
	store := newFakeStore()
	lists := &fakeInvalidator{}
	a := newActions(store, lists)

	res := a.CreateInvoice(signedInCtx(), nil, invoiceForm("c1", "10.50", "pending"))

	if res.Redirect != actions.InvoicesPath {
		t.Fatalf("expected redirect to %q; got %+v", actions.InvoicesPath, res)
	}
	if res.State != nil {
		t.Fatalf("expected no renderable state on success; got %+v", res.State)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one insert; got %d", len(store.inserted))
	}
	row := store.inserted[0]
	if row.Amount != 1050 {
		t.Fatalf("expected amount 1050; got %d", row.Amount)
	}
	if row.Status != models.InvoiceStatusPending {
		t.Fatalf("expected status pending; got %q", row.Status)
	}
	if lists.calls != 1 {
		t.Fatalf("expected one list invalidation; got %d", lists.calls)
	}
}

func TestCreateInvoiceMissingCustomer(t *testing.T) {
	store := newFakeStore()
	a := newActions(store, &fakeInvalidator{})

	res := a.CreateInvoice(signedInCtx(), nil, invoiceForm("", "5", "paid"))

	if res.Redirect != "" {
		t.Fatalf("expected no redirect; got %q", res.Redirect)
	}
	if res.State == nil {
		t.Fatalf("expected renderable state")
	}
	if res.State.Message != actions.MsgMissingFieldsCreate {
		t.Fatalf("expected message %q; got %q", actions.MsgMissingFieldsCreate, res.State.Message)
	}
	msgs := res.State.Errors["customerId"]
	if len(msgs) != 1 || msgs[0] != actions.MsgSelectCustomer {
		t.Fatalf("expected [%q] for customerId; got %v", actions.MsgSelectCustomer, msgs)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("validation failure must not reach the store; inserted %d", len(store.inserted))
	}
}

func TestCreateInvoiceZeroAmountMakesNoStoreCall(t *testing.T) {
	store := newFakeStore()
	lists := &fakeInvalidator{}
	a := newActions(store, lists)

	res := a.CreateInvoice(signedInCtx(), nil, invoiceForm("c1", "0", "pending"))

	if res.State == nil {
		t.Fatalf("expected renderable state")
	}
	msgs := res.State.Errors["amount"]
	if len(msgs) != 1 || msgs[0] != actions.MsgAmountTooSmall {
		t.Fatalf("expected [%q] for amount; got %v", actions.MsgAmountTooSmall, msgs)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("expected no store call")
	}
	if lists.calls != 0 {
		t.Fatalf("expected no invalidation")
	}
}

func TestCreateInvoiceStoreFailureIsCaptured(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("customer does not exist")
	a := newActions(store, &fakeInvalidator{})

	res := a.CreateInvoice(signedInCtx(), nil, invoiceForm("ghost", "5", "paid"))

	if res.Redirect != "" {
		t.Fatalf("expected no redirect on store failure")
	}
	want := "Database Error: Failed to Update Invoice. customer does not exist"
	if res.State == nil || res.State.Message != want {
		t.Fatalf("expected message %q; got %+v", want, res.State)
	}
}

func TestUpdateInvoiceSucceedsAndRedirects(t *testing.T) {
	store := newFakeStore()
	lists := &fakeInvalidator{}
	a := newActions(store, lists)

	res := a.UpdateInvoice(signedInCtx(), "inv-1", nil, invoiceForm("c2", "20", "paid"))

	if res.Redirect != actions.InvoicesPath {
		t.Fatalf("expected redirect; got %+v", res)
	}
	row := store.updated["inv-1"]
	if row == nil {
		t.Fatalf("expected update for inv-1")
	}
	if row.Amount != 2000 || row.CustomerId != "c2" || row.Status != models.InvoiceStatusPaid {
		t.Fatalf("unexpected update payload: %+v", row)
	}
	if lists.calls != 1 {
		t.Fatalf("expected one list invalidation; got %d", lists.calls)
	}
}

func TestUpdateInvoiceValidationReusesCreateMessage(t *testing.T) {
	store := newFakeStore()
	a := newActions(store, &fakeInvalidator{})

	res := a.UpdateInvoice(signedInCtx(), "inv-1", nil, invoiceForm("c2", "0", "paid"))

	if res.State == nil || res.State.Message != actions.MsgMissingFieldsUpdate {
		t.Fatalf("expected message %q; got %+v", actions.MsgMissingFieldsUpdate, res.State)
	}
	if len(store.updated) != 0 {
		t.Fatalf("validation failure must not reach the store")
	}
}

func TestUpdateInvoiceMissingIdStillRedirects(t *testing.T) {
	// the store reports zero rows affected for an unknown id; the action
	// treats that as success
	store := newFakeStore()
	a := newActions(store, &fakeInvalidator{})

	res := a.UpdateInvoice(signedInCtx(), "no-such-id", nil, invoiceForm("c1", "5", "pending"))

	if res.Redirect != actions.InvoicesPath {
		t.Fatalf("expected redirect for unknown id; got %+v", res)
	}
}

func TestDeleteInvoiceMarksStalenessWithoutRedirect(t *testing.T) {
	store := newFakeStore()
	lists := &fakeInvalidator{}
	a := newActions(store, lists)

	if err := a.DeleteInvoice(signedInCtx(), "inv-1"); err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "inv-1" {
		t.Fatalf("expected delete of inv-1; got %v", store.deleted)
	}
	if lists.calls != 1 {
		t.Fatalf("expected one list invalidation; got %d", lists.calls)
	}
}

func TestDeleteInvoiceFailureIsReturned(t *testing.T) {
	store := newFakeStore()
	store.deleteErr = errors.New("connection lost")
	lists := &fakeInvalidator{}
	a := newActions(store, lists)

	err := a.DeleteInvoice(signedInCtx(), "inv-1")
	if !errors.Is(err, actions.ErrDeleteInvoice) {
		t.Fatalf("expected ErrDeleteInvoice; got %v", err)
	}
	if lists.calls != 0 {
		t.Fatalf("failed delete must not invalidate the listing")
	}
}

func TestCreateInvoiceInvalidationFailureDoesNotBlockRedirect(t *testing.T) {
	store := newFakeStore()
	lists := &fakeInvalidator{err: errors.New("redis down")}
	a := newActions(store, lists)

	res := a.CreateInvoice(signedInCtx(), nil, invoiceForm("c1", "5", "paid"))
	if res.Redirect != actions.InvoicesPath {
		t.Fatalf("stale cache must not fail the mutation; got %+v", res)
	}
}
