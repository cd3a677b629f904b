package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name        TEXT NOT NULL,
//     description TEXT,
//     price       NUMERIC NOT NULL,
//     image       TEXT,
//     category    TEXT,
//     brand       TEXT,
//     discount    NUMERIC DEFAULT 0,
//     stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Price       float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	Image       string    `gorm:"column:image;type:text" json:"image"`
	Category    string    `gorm:"column:category;type:text" json:"category"`
	Brand       string    `gorm:"column:brand;type:text" json:"brand"`
	Discount    float64   `gorm:"column:discount;type:numeric;default:0" json:"discount"`
	Stock       int       `gorm:"column:stock;not null;default:0" json:"stock"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
