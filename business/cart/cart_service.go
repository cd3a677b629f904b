package cart

import (
	"context"
	"errors"

	"megaMart/domain"
	"megaMart/pkg/logger"
)

// CartRepository contract interface
type CartRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.Cart, error)
	AddOrMergeItem(ctx context.Context, userID uint, productID uint64, quantity int) error
	SetItemQuantity(ctx context.Context, userID uint, productID uint64, quantity int) error
	RemoveItem(ctx context.Context, userID uint, productID uint64) error
	Clear(ctx context.Context, userID uint) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
}

type cartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewCartService(cartRepo CartRepository, productRepo ProductRepository) *cartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart never fails for a missing cart: browsing users simply get an
// empty one.
func (s *cartService) GetCart(ctx context.Context, userID uint) (domain.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		logger.Error("Failed to find cart", err)
		return domain.Cart{}, err
	}

	return cart, nil
}

// AddItem adds quantity to an existing line for the product or appends a
// new one. Stock is deliberately not checked here: the cart is a staging
// area and checkout does the authoritative validation.
func (s *cartService) AddItem(ctx context.Context, userID uint, productID uint64, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, errors.New("quantity must be a positive integer")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		logger.Error("Failed to resolve product for cart", err)
		return domain.Cart{}, err
	}

	if err := s.cartRepo.AddOrMergeItem(ctx, userID, productID, quantity); err != nil {
		logger.Error("Failed to add cart item", err)
		return domain.Cart{}, err
	}

	return s.cartRepo.FindByUserID(ctx, userID)
}

func (s *cartService) SetQuantity(ctx context.Context, userID uint, productID uint64, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, errors.New("quantity must be a positive integer")
	}

	if err := s.cartRepo.SetItemQuantity(ctx, userID, productID, quantity); err != nil {
		logger.Error("Failed to set cart item quantity", err)
		return domain.Cart{}, err
	}

	return s.cartRepo.FindByUserID(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uint, productID uint64) (domain.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		logger.Error("Failed to remove cart item", err)
		return domain.Cart{}, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID uint) error {
	return s.cartRepo.Clear(ctx, userID)
}
