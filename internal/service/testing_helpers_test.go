package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/vitrine-api/internal/models"
	"github.com/vitrine-api/internal/repository"

	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", time.Now().UnixNano())
	db, err := models.OpenDB("sqlite", dsn, "silent", models.DBPoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price models.Cents, promo *models.Cents) models.Product {
	t.Helper()
	product := models.Product{
		Name:                    name,
		Description:             name + " description",
		ImageURL:                "https://example.com/" + name + ".png",
		PriceInCents:            price,
		PromotionalPriceInCents: promo,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func newTestCartService(db *gorm.DB) *CartService {
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func addInput(productID, quantity int) AddToCartInput {
	return AddToCartInput{ProductID: &productID, Quantity: &quantity}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}
