package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DemoProducts 演示商品目录
func DemoProducts() []Product {
	return []Product{
		{
			Name:         "Smartphone Samsung Galaxy S24",
			Description:  "Smartphone top de linha com câmera de 200MP, processador Snapdragon 8 Gen 3, 12GB RAM e 256GB de armazenamento interno.",
			ImageURL:     "https://images.unsplash.com/photo-1610945415295-d9bbf067e59c?w=800",
			PriceInCents: price("4499.00"),
		},
		{
			Name:                    "Notebook Gamer Acer Nitro 5",
			Description:             "Notebook gamer com processador Intel Core i7 de 12ª geração, NVIDIA GeForce RTX 4060, 16GB de RAM DDR5, SSD NVMe de 512GB e tela Full HD de 15.6 polegadas a 144Hz.",
			ImageURL:                "https://images.unsplash.com/photo-1603302576837-37561b2e2302?w=800",
			PriceInCents:            price("7499.00"),
			PromotionalPriceInCents: CentsPtr(price("6499.00")),
		},
		{
			Name:                    "Mouse Gamer Logitech G Pro",
			Description:             "Mouse gamer profissional com sensor HERO 25K, 8 botões programáveis e design ambidestro.",
			ImageURL:                "https://images.unsplash.com/photo-1527814050087-3793815479db?w=800",
			PriceInCents:            price("299.00"),
			PromotionalPriceInCents: CentsPtr(price("249.00")),
		},
		{
			Name:         "Teclado Mecânico Keychron K2",
			Description:  "Teclado mecânico wireless com switches Gateron, layout 75%, conexão Bluetooth e USB-C.",
			ImageURL:     "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=800",
			PriceInCents: price("599.00"),
		},
		{
			Name:         "Fone de Ouvido Sony WH-1000XM5",
			Description:  "Fone de ouvido premium com cancelamento de ruído inteligente, bateria de 30 horas e som Hi-Res.",
			ImageURL:     "https://images.unsplash.com/photo-1618366712010-f4ae9c647dcb?w=800",
			PriceInCents: price("1899.00"),
		},
	}
}

// price 以元填写演示价格
func price(amount string) Cents {
	return NewCentsFromDecimal(decimal.RequireFromString(amount))
}

// ResetAndSeed 清空购物车与商品后写入演示目录，返回写入的商品
func ResetAndSeed(db *gorm.DB, now time.Time) ([]Product, error) {
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	products := DemoProducts()
	for i := range products {
		products[i].CreatedAt = now
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		// 先删子表，外键顺序
		for _, model := range []interface{}{&CartItem{}, &Cart{}, &Product{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Create(&products).Error
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
