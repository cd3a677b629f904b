package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"megaMart/domain"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		DB: db,
	}
}

// FindByUserID returns the user's cart with items and their live products
// preloaded. Returns domain.ErrCartNotFound when none exists yet.
func (r *CartRepository) FindByUserID(ctx context.Context, userID uint) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("failed to find cart: %w", err)
	}

	return cart, nil
}

// AddOrMergeItem lazily creates the cart and either appends a new line or
// adds the quantity to an existing line for the same product.
func (r *CartRepository) AddOrMergeItem(ctx context.Context, userID uint, productID uint64, quantity int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart domain.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = domain.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return fmt.Errorf("failed to create cart: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to find cart: %w", err)
		}

		var item domain.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = domain.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to find cart item: %w", err)
		}

		// merge semantics: same product never creates a second line
		result := tx.Model(&domain.CartItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", quantity),
				"added_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to merge cart item: %w", result.Error)
		}

		return nil
	})
}

// SetItemQuantity overwrites the quantity of an existing line.
func (r *CartRepository) SetItemQuantity(ctx context.Context, userID uint, productID uint64, quantity int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCartNotFound
		}
		return fmt.Errorf("failed to find cart: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}

	return nil
}

// RemoveItem deletes the matching line. Absent cart or line is a no-op.
func (r *CartRepository) RemoveItem(ctx context.Context, userID uint, productID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find cart: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&domain.CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}

	return nil
}

// Clear empties all lines but keeps the cart row.
func (r *CartRepository) Clear(ctx context.Context, userID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find cart: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
