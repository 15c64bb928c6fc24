package actions

import (
	"context"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
)

// production wiring: gorm-backed store, redis-backed list invalidation

type modelStore struct{}

func (modelStore) Insert(ctx context.Context, input *models.NewInvoice) (*models.Invoice, error) {
	return models.CreateInvoice(ctx, input)
}

func (modelStore) Update(ctx context.Context, id string, input *models.NewInvoice) error {
	return models.UpdateInvoice(ctx, id, input)
}

func (modelStore) Delete(ctx context.Context, id string) error {
	return models.DeleteInvoice(ctx, id)
}

type redisListInvalidator struct{}

func (redisListInvalidator) InvalidateInvoiceList(ctx context.Context) error {
	return models.Invoice{}.RemoveAllRedis()
}

type modelVerifier struct{}

func (modelVerifier) SignIn(ctx context.Context, email string, password string) (*models.LoginInfo, error) {
	return models.SignIn(ctx, email, password)
}

func NewDefaultInvoiceActions() *InvoiceActions {
	return NewInvoiceActions(modelStore{}, redisListInvalidator{}, config.GetLogger())
}

func NewDefaultAuthActions() *AuthActions {
	return NewAuthActions(modelVerifier{}, config.GetLogger())
}
