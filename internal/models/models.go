package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"

	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"

	GatewayCard       = "card"
	GatewaySSLCommerz = "sslcommerz"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"  json:"_id"`
	Name  string    `gorm:"not null;default:''"   json:"name"`
	Email string    `gorm:"uniqueIndex;not null"  json:"email"`
	Role  string    `gorm:"not null;default:''"   json:"role,omitempty"`
}

type MenuItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"  json:"_id"`
	Name     string    `gorm:"not null"              json:"name"`
	Category string    `gorm:"index;not null"        json:"category"`
	Price    float64   `gorm:"not null"              json:"price"`
	Recipe   string    `json:"recipe"`
	Image    string    `json:"image"`
}

type Review struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"  json:"_id"`
	Name    string    `gorm:"not null"              json:"name"`
	Details string    `json:"details"`
	Rating  float64   `json:"rating"`
}

type CartItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"  json:"_id"`
	Email  string    `gorm:"index;not null"        json:"email"`
	MenuID uuid.UUID `gorm:"type:uuid;not null"    json:"menuId"`
	Name   string    `json:"name"`
	Image  string    `json:"image"`
	Price  float64   `gorm:"not null"              json:"price"`
}

// Payment is the audit record of one payment attempt. An empty Status means
// the outcome is not known yet.
type Payment struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"       json:"_id"`
	Email         string        `gorm:"index;not null"             json:"email"`
	Price         float64       `gorm:"not null"                   json:"price"`
	TransactionID string        `gorm:"index;not null;default:''"  json:"transactionId"`
	Date          time.Time     `json:"date"`
	CartIDs       []string      `gorm:"serializer:json"            json:"cartIds"`
	MenuItemIDs   []string      `gorm:"serializer:json"            json:"menuItemIds"`
	Status        string        `gorm:"not null;default:''"        json:"status,omitempty"`
	Gateway       string        `gorm:"not null;default:''"        json:"gateway,omitempty"`
	Items         []PaymentItem `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"-"`
}

// PaymentItem is one menu item reference of a payment, kept as a row so the
// order stats can join it against the menu.
type PaymentItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaymentID  uuid.UUID `gorm:"type:uuid;index;not null"`
	MenuItemID uuid.UUID `gorm:"type:uuid;index;not null"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	return nil
}

func (p *PaymentItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// All lists every model the store migrates.
func All() []any {
	return []any{&User{}, &MenuItem{}, &Review{}, &CartItem{}, &Payment{}, &PaymentItem{}}
}
