package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID `gorm:"primary_key;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	ImageUrl  string    `json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	ImageUrl string `json:"image_url"`
}

/*
caches:
	CustomerList
	Customer:$id
*/

func (customer Customer) RemoveAllRedis() error {
	return utils.RemoveRedisList[Customer]()
}

func (customer *Customer) BeforeCreate(tx *gorm.DB) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()

	if input.Name == "" {
		return nil, errors.New("customer name is required")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}

	customer := Customer{
		Name:     input.Name,
		Email:    strings.ToLower(input.Email),
		ImageUrl: input.ImageUrl,
	}

	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	if err := customer.RemoveAllRedis(); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "customer.go", "CreateCustomer", "RemoveAllRedis", nil, err)
	}

	return &customer, nil
}

func GetCustomer(ctx context.Context, id string) (*Customer, error) {
	cached, err := utils.RetrieveRedis[Customer](id)
	if err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()

	var customer Customer
	err = db.WithContext(ctx).Model(&Customer{}).Where("id = ?", id).Take(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	if err := utils.StoreRedis[Customer](&customer, id); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "customer.go", "GetCustomer", "StoreRedis", nil, err)
	}
	return &customer, nil
}

// FetchFilteredCustomers returns customers whose name or email matches the
// query, ordered by name. The unfiltered list is served from the redis cache
// when present; mutations invalidate it via RemoveAllRedis.
func FetchFilteredCustomers(ctx context.Context, query string) ([]*Customer, error) {
	query = strings.TrimSpace(query)

	if query == "" {
		cached, err := utils.RetrieveRedisList[Customer]()
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	db := config.GetDB()
	var results []*Customer
	dbCtx := db.WithContext(ctx).Model(&Customer{})
	if query != "" {
		pattern := "%" + query + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if err := dbCtx.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}

	if query == "" {
		if err := utils.StoreRedisList[Customer](results); err != nil {
			logger := config.GetLogger()
			config.LogError(logger, "customer.go", "FetchFilteredCustomers", "StoreRedisList", nil, err)
		}
	}

	return results, nil
}
