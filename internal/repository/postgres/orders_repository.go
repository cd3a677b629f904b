package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"megaMart/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// PlaceOrder runs the whole checkout write path in one transaction: per-line
// conditional stock decrements, snapshot capture, total computation and the
// order insert. Any failure rolls back every earlier decrement.
//
// The stock guard is a conditional update (stock = stock - q only where
// stock >= q), so two concurrent checkouts can never drive stock negative:
// the second one sees zero rows affected and fails with insufficient stock.
func (r *OrdersRepository) PlaceOrder(ctx context.Context, order *domain.Order, lines []domain.OrderLine) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := make([]domain.OrderItem, 0, len(lines))

		for _, line := range lines {
			var product domain.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrProductNotFound
				}
				return fmt.Errorf("failed to find product: %w", err)
			}

			result := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domain.ErrInsufficientStock
			}

			items = append(items, domain.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
			})
		}

		order.Items = items
		order.TotalAmount = domain.OrderTotal(items)

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
}

// CancelOrder flips a pending order to cancelled and restores every line's
// quantity to product stock, in one transaction. The status flip is guarded
// on the current status, so a second cancel fails instead of restoring
// stock twice.
func (r *OrdersRepository) CancelOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("context error: %w", err)
	}

	var order domain.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("failed to find order: %w", err)
		}

		now := time.Now()
		result := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", orderID, domain.OrderStatusPending).
			Updates(map[string]interface{}{
				"status":       domain.OrderStatusCancelled,
				"cancelled_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrOrderNotCancelable
		}

		for _, item := range order.Items {
			// products deleted since the purchase have nothing to restore
			result := tx.Model(&domain.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to restore stock: %w", result.Error)
			}
		}

		order.Status = domain.OrderStatusCancelled
		order.CancelledAt = &now

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (r *OrdersRepository) FindByID(ctx context.Context, orderID uint) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("context error: %w", err)
	}

	var order domain.Order
	err := r.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// FindByUserID returns the user's orders newest first, with live product
// data preloaded for display next to the snapshots.
func (r *OrdersRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var orders []domain.Order
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	return orders, nil
}
