package orders

import (
	"context"
	"errors"
	"time"

	"megaMart/domain"
	"megaMart/pkg/logger"
	"megaMart/pkg/metrics"

	"github.com/google/uuid"
)

// OrdersRepository contract interface
type OrdersRepository interface {
	PlaceOrder(ctx context.Context, order *domain.Order, lines []domain.OrderLine) error
	CancelOrder(ctx context.Context, orderID uint) (domain.Order, error)
	FindByID(ctx context.Context, orderID uint) (domain.Order, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Order, error)
}

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// CartRepository contract interface
type CartRepository interface {
	Clear(ctx context.Context, userID uint) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

type ordersService struct {
	ordersRepo OrdersRepository
	userRepo   UserRepository
	cartRepo   CartRepository
	notifRepo  NotificationRepository
	adminEmail string
}

func NewOrdersService(
	ordersRepo OrdersRepository,
	userRepo UserRepository,
	cartRepo CartRepository,
	notifRepo NotificationRepository,
	adminEmail string,
) *ordersService {
	return &ordersService{
		ordersRepo: ordersRepo,
		userRepo:   userRepo,
		cartRepo:   cartRepo,
		notifRepo:  notifRepo,
		adminEmail: adminEmail,
	}
}

// PlaceOrder checks out the given lines: stock is decremented and the order
// persisted atomically, then the cart is cleared and confirmation emails go
// out. The order counts as placed once the transaction commits; everything
// after that is best-effort.
func (s *ordersService) PlaceOrder(ctx context.Context, userID uint, lines []domain.OrderLine, address domain.Address, paymentMethod string) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, errors.New("order must have at least one line")
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return domain.Order{}, errors.New("quantity must be a positive integer")
		}
	}

	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCOD
	}
	if paymentMethod != domain.PaymentMethodCOD && paymentMethod != domain.PaymentMethodOnline {
		return domain.Order{}, errors.New("invalid payment method")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to resolve user for order", err)
		return domain.Order{}, err
	}

	order := domain.Order{
		OrderRef:      generateOrderRef(),
		UserID:        userID,
		Address:       address,
		PaymentMethod: paymentMethod,
		Status:        domain.OrderStatusPending,
		PlacedAt:      time.Now(),
	}

	start := time.Now()
	if err := s.ordersRepo.PlaceOrder(ctx, &order, lines); err != nil {
		logger.Error("Failed to place order", err)
		return domain.Order{}, err
	}
	metrics.OrderPlaceLatency.Observe(time.Since(start).Seconds())
	metrics.OrdersPlaced.Inc()

	// the order is already placed; a failed cart clear must not undo it
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		logger.Error("Failed to clear cart after order placement", err, "order_ref", order.OrderRef)
	}

	go s.sendEmails(
		user,
		mailMessage{
			subject: subjectOrderConfirmed,
			body:    renderOrderPlacedCustomer(user, order),
		},
		mailMessage{
			subject: subjectAdminNewOrder,
			body:    renderOrderPlacedAdmin(user, order),
		},
	)

	logger.Info("Order placed", "order_ref", order.OrderRef, "user_id", userID, "total", order.TotalAmount)

	return order, nil
}

// CancelOrder is idempotent: a pending order flips to cancelled and its
// stock is restored exactly once; repeating the call fails without touching
// stock again.
func (s *ordersService) CancelOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	order, err := s.ordersRepo.CancelOrder(ctx, orderID)
	if err != nil {
		logger.Error("Failed to cancel order", err, "order_id", orderID)
		return domain.Order{}, err
	}
	metrics.OrdersCancelled.Inc()

	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		logger.Warn("Skipping cancellation emails, user not found", err, "order_id", orderID)
		return order, nil
	}

	go s.sendEmails(
		user,
		mailMessage{
			subject: subjectOrderCancelled,
			body:    renderOrderCancelledCustomer(user, order),
		},
		mailMessage{
			subject: subjectAdminOrderCancelled,
			body:    renderOrderCancelledAdmin(user, order),
		},
	)

	logger.Info("Order cancelled", "order_ref", order.OrderRef, "user_id", order.UserID)

	return order, nil
}

func (s *ordersService) GetOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	return s.ordersRepo.FindByID(ctx, orderID)
}

func (s *ordersService) GetUserOrders(ctx context.Context, userID uint) ([]domain.Order, error) {
	return s.ordersRepo.FindByUserID(ctx, userID)
}

type mailMessage struct {
	subject string
	body    string
}

// sendEmails delivers the customer copy and the admin copy. Failures are
// logged and counted, never surfaced: notification outcome must not affect
// the client-visible order result.
func (s *ordersService) sendEmails(user domain.User, customerMail, adminMail mailMessage) {
	if err := s.notifRepo.SendEmail(user.Username, user.Email, customerMail.subject, customerMail.body); err != nil {
		metrics.NotificationFailures.Inc()
		logger.Warn("Failed to send customer email", err, "email", user.Email)
	}

	if err := s.notifRepo.SendEmail("Admin", s.adminEmail, adminMail.subject, adminMail.body); err != nil {
		metrics.NotificationFailures.Inc()
		logger.Warn("Failed to send admin email", err)
	}
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
