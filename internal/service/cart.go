package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NureAlam68/magical-meals-server/internal/models"
	"github.com/NureAlam68/magical-meals-server/internal/repo"
	"github.com/NureAlam68/magical-meals-server/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, email string) ([]models.CartItem, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email required", ErrValidation)
	}
	return s.Repo.GetCart(ctx, email)
}

func (s *CartService) AddToCart(ctx context.Context, req transport.CartItemRequest) (transport.InsertResult, error) {
	if strings.TrimSpace(req.Email) == "" {
		return transport.InsertResult{}, fmt.Errorf("%w: email required", ErrValidation)
	}
	menuID, err := parseID(req.MenuID, "menuId")
	if err != nil {
		return transport.InsertResult{}, err
	}
	if req.Price < 0 {
		return transport.InsertResult{}, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	item := &models.CartItem{
		Email:  req.Email,
		MenuID: menuID,
		Name:   req.Name,
		Image:  req.Image,
		Price:  req.Price,
	}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return transport.InsertResult{}, err
	}
	return transport.Inserted(item.ID.String()), nil
}

// DeleteFromCart removes one cart item. With a non-empty owner only the
// owner's item is deleted, in a single statement. A missing item deletes
// nothing.
func (s *CartService) DeleteFromCart(ctx context.Context, rawID, owner string) (transport.DeleteResult, error) {
	id, err := parseID(rawID, "cart id")
	if err != nil {
		return transport.DeleteResult{}, err
	}

	if owner == "" {
		n, err := s.Repo.DeleteCartItem(ctx, id)
		if err != nil {
			return transport.DeleteResult{}, err
		}
		return transport.Deleted(n), nil
	}

	n, err := s.Repo.DeleteCartItems(ctx, owner, []uuid.UUID{id})
	if err != nil {
		return transport.DeleteResult{}, err
	}
	if n > 0 {
		return transport.Deleted(n), nil
	}

	// nothing of the owner's matched: either gone or someone else's
	if _, err := s.Repo.GetCartItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Deleted(0), nil
		}
		return transport.DeleteResult{}, err
	}
	return transport.DeleteResult{}, ErrForbidden
}
