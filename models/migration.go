package models

import (
	"log"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Customer{},
		&Invoice{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}

	// AutoMigrate does not create cross-table constraints for plain string
	// reference columns; the invoices.customer_id FK is what rejects unknown
	// customers at the store level.
	if !db.Migrator().HasConstraint(&Invoice{}, "fk_invoices_customer") {
		if err := db.Exec(
			"ALTER TABLE invoices ADD CONSTRAINT fk_invoices_customer FOREIGN KEY (customer_id) REFERENCES customers (id)",
		).Error; err != nil {
			log.Printf("failed to add invoices.customer_id constraint: %v", err)
		}
	}
}
