package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:100;not null"        json:"name"`
	CPF          string    `gorm:"size:15;unique;not null"  json:"cpf"`
	Email        string    `gorm:"size:100;unique;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"        json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Culture struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:100;not null"        json:"name"`
	Description string `gorm:"type:text"                json:"description,omitempty"`
	UserID      uint   `gorm:"index;not null"           json:"user_id"`
}

type Production struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	CultureID   uint      `gorm:"index;not null"           json:"culture_id"`
	Quantity    float64   `gorm:"not null"                 json:"quantity"`
	HarvestDate time.Time `gorm:"type:date;not null"       json:"harvest_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type StockItem struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName string     `gorm:"size:100;not null"        json:"product_name"`
	Quantity    float64    `gorm:"not null"                 json:"quantity"`
	Expiry      *time.Time `gorm:"type:date"                json:"expiry,omitempty"`
	Supplier    string     `gorm:"size:100"                 json:"supplier,omitempty"`
	UserID      uint       `gorm:"index;not null"           json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}
