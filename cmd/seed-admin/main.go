// seed-admin creates or updates the dashboard admin user and a handful of
// demo customers so the invoices form has something to reference.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@dashboard.local"
	adminPassword = "D@shboardAdmin"
	adminName     = "Dashboard Admin"
)

var demoCustomers = []models.NewCustomer{
	{Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageUrl: "/customers/evil-rabbit.png"},
	{Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageUrl: "/customers/delba-de-oliveira.png"},
	{Name: "Lee Robinson", Email: "lee@robinson.com", ImageUrl: "/customers/lee-robinson.png"},
	{Name: "Michael Novotny", Email: "michael@novotny.com", ImageUrl: "/customers/michael-novotny.png"},
	{Name: "Amy Burns", Email: "amy@burns.com", ImageUrl: "/customers/amy-burns.png"},
	{Name: "Balazs Orban", Email: "balazs@orban.com", ImageUrl: "/customers/balazs-orban.png"},
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	models.MigrateTable()

	var admin models.User
	err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", adminEmail).Take(&admin).Error
	switch {
	case err == nil:
		hashed, herr := utils.HashPassword(adminPassword)
		if herr != nil {
			fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", herr)
			os.Exit(1)
		}
		if uerr := db.WithContext(ctx).Model(&admin).Updates(map[string]interface{}{
			"name":     adminName,
			"password": string(hashed),
		}).Error; uerr != nil {
			fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", uerr)
			os.Exit(1)
		}
		fmt.Printf("updated admin user %s\n", adminEmail)
	case err == gorm.ErrRecordNotFound:
		if _, cerr := models.CreateUser(ctx, &models.NewUser{
			Name:     adminName,
			Email:    adminEmail,
			Password: adminPassword,
		}); cerr != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", cerr)
			os.Exit(1)
		}
		fmt.Printf("created admin user %s\n", adminEmail)
	default:
		fmt.Fprintf(os.Stderr, "failed to lookup admin user: %v\n", err)
		os.Exit(1)
	}

	for _, input := range demoCustomers {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Customer{}).
			Where("email = ?", strings.ToLower(input.Email)).Count(&count).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to check customer %s: %v\n", input.Email, err)
			os.Exit(1)
		}
		if count > 0 {
			continue
		}
		if _, err := models.CreateCustomer(ctx, &input); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed customer %s: %v\n", input.Name, err)
			os.Exit(1)
		}
		fmt.Printf("seeded customer %s\n", input.Name)
	}
}
