package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID         uuid.UUID     `gorm:"primary_key;size:36" json:"id"`
	SequenceNo int64         `gorm:"index" json:"sequence_no"`
	CustomerId string        `gorm:"size:36;index;not null" json:"customer_id" binding:"required"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Status     InvoiceStatus `gorm:"type:enum('pending','paid');not null" json:"status" binding:"required"`
	Date       string        `gorm:"size:10;not null" json:"date"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// Amount is stored in minor currency units (cents). Date is stamped by the
// server at creation time and never updated afterwards.

type NewInvoice struct {
	CustomerId string        `json:"customer_id" binding:"required"`
	Amount     int64         `json:"amount" binding:"required"`
	Status     InvoiceStatus `json:"status" binding:"required"`
}

/*
caches:
	InvoiceList
	Invoice:$id
*/

func (invoice Invoice) RemoveAllRedis() error {
	return utils.RemoveRedisList[Invoice]()
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	return nil
}

// CreateInvoice(newInvoice) (Invoice,error)
// UpdateInvoice(id, newInvoice) (Invoice,error)
// DeleteInvoice(id) error
// GetInvoice(id) (Invoice,error)
// ListInvoices() ([]Invoice,error)

func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	db := config.GetDB()

	if !input.Status.IsValid() {
		return nil, errors.New("invalid invoice status")
	}
	if input.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	seqNo, err := utils.NextSequence[Invoice](ctx)
	if err != nil {
		return nil, err
	}

	invoice := Invoice{
		SequenceNo: seqNo,
		CustomerId: input.CustomerId,
		Amount:     input.Amount,
		Status:     input.Status,
		Date:       time.Now().Format("2006-01-02"),
	}

	if err := db.WithContext(ctx).Create(&invoice).Error; err != nil {
		return nil, translateStoreError(err)
	}

	return &invoice, nil
}

// UpdateInvoice overwrites customer_id, amount and status on the matching
// row. Date and id are immutable. A missing id is not an error: gorm reports
// zero rows affected and the caller proceeds as on success.
func UpdateInvoice(ctx context.Context, id string, input *NewInvoice) error {
	db := config.GetDB()

	if !input.Status.IsValid() {
		return errors.New("invalid invoice status")
	}
	if input.Amount <= 0 {
		return errors.New("amount must be positive")
	}

	err := db.WithContext(ctx).Model(&Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_id": input.CustomerId,
			"amount":      input.Amount,
			"status":      input.Status,
		}).Error
	if err != nil {
		return translateStoreError(err)
	}

	if err := utils.RemoveRedisItem[Invoice](id); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "invoice.go", "UpdateInvoice", "RemoveRedisItem", nil, err)
	}
	return nil
}

func DeleteInvoice(ctx context.Context, id string) error {
	db := config.GetDB()

	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&Invoice{}).Error; err != nil {
		return translateStoreError(err)
	}

	if err := utils.RemoveRedisItem[Invoice](id); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "invoice.go", "DeleteInvoice", "RemoveRedisItem", nil, err)
	}
	return nil
}

func GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	cached, err := utils.RetrieveRedis[Invoice](id)
	if err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()

	var invoice Invoice
	err = db.WithContext(ctx).Model(&Invoice{}).Where("id = ?", id).Take(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	if err := utils.StoreRedis[Invoice](&invoice, id); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "invoice.go", "GetInvoice", "StoreRedis", nil, err)
	}
	return &invoice, nil
}

func ListInvoices(ctx context.Context) ([]*Invoice, error) {
	cached, err := utils.RetrieveRedisList[Invoice]()
	if err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var results []*Invoice
	if err := db.WithContext(ctx).Model(&Invoice{}).
		Order("date DESC, sequence_no DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	if err := utils.StoreRedisList[Invoice](results); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "invoice.go", "ListInvoices", "StoreRedisList", nil, err)
	}

	return results, nil
}

const (
	mysqlErrDuplicateEntry   = 1062
	mysqlErrNoReferencedRow  = 1216
	mysqlErrNoReferencedRow2 = 1452
)

// translateStoreError keeps driver-level faults out of user-facing messages.
func translateStoreError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrNoReferencedRow, mysqlErrNoReferencedRow2:
			return errors.New("customer does not exist")
		case mysqlErrDuplicateEntry:
			return errors.New("duplicate invoice")
		}
	}
	return err
}
