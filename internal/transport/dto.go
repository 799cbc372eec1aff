package transport

import "time"

type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MenuItemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
}

type CartItemRequest struct {
	Email  string  `json:"email"`
	MenuID string  `json:"menuId"`
	Name   string  `json:"name"`
	Image  string  `json:"image"`
	Price  float64 `json:"price"`
}

type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PaymentRequest is the payment record as the client submits it.
type PaymentRequest struct {
	Email         string     `json:"email"`
	Price         float64    `json:"price"`
	TransactionID string     `json:"transactionId"`
	Date          *time.Time `json:"date"`
	CartIDs       []string   `json:"cartIds"`
	MenuItemIDs   []string   `json:"menuItemIds"`
	Status        string     `json:"status"`
}

type IPNResponse struct {
	Status string `json:"status"`
}

type GatewaySessionResponse struct {
	GatewayURL string `json:"gatewayUrl"`
}

type InsertResult struct {
	Acknowledged bool    `json:"acknowledged"`
	InsertedID   *string `json:"insertedId"`
	Message      string  `json:"message,omitempty"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type PaymentResult struct {
	PaymentResult InsertResult `json:"paymentResult"`
	DeletedResult DeleteResult `json:"deletedResult"`
}

type AdminCheckResponse struct {
	Admin bool `json:"admin"`
}

type AdminStats struct {
	Users     int64   `json:"users"`
	MenuItems int64   `json:"menuItems"`
	Orders    int64   `json:"orders"`
	Revenue   float64 `json:"revenue"`
}

type SearchResponse[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Items []T   `json:"items"`
}

func Inserted(id string) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: &id}
}

func Deleted(n int64) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: n}
}

func Updated(matched, modified int64) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}
}
