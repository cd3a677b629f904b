package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"megaMart/domain"
	"megaMart/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		PlaceOrder(ctx context.Context, userID uint, lines []domain.OrderLine, address domain.Address, paymentMethod string) (domain.Order, error)
		CancelOrder(ctx context.Context, orderID uint) (domain.Order, error)
		GetUserOrders(ctx context.Context, userID uint) ([]domain.Order, error)
	}

	OrderLineInput struct {
		ProductID uint64 `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gt=0"`
	}

	AddressInput struct {
		FullName string `json:"full_name" validate:"required"`
		Street   string `json:"street" validate:"required"`
		City     string `json:"city" validate:"required"`
		Zip      string `json:"zip" validate:"required"`
		Phone    string `json:"phone" validate:"required"`
	}

	PlaceOrderRequest struct {
		Items         []OrderLineInput `json:"items" validate:"required,min=1,dive"`
		Address       AddressInput     `json:"address" validate:"required"`
		PaymentMethod string           `json:"payment_method" validate:"omitempty,oneof=COD Online"`
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       15 * time.Second,
	}
}

func (h *OrdersHandler) PlaceOrder(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var req PlaceOrderRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate place order request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.PlaceOrder(ctx, userID, lines, domain.Address{
		FullName: req.Address.FullName,
		Street:   req.Address.Street,
		City:     req.Address.City,
		Zip:      req.Address.Zip,
		Phone:    req.Address.Phone,
	}, req.PaymentMethod)
	if err != nil {
		logger.Error("Failed to place order", err)
		return c.JSON(errorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

func (h *OrdersHandler) CancelOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid order id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CancelOrder(ctx, uint(orderID))
	if err != nil {
		logger.Error("Failed to cancel order", err)
		return c.JSON(errorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) GetUserOrders(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.GetUserOrders(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user orders", err)
		return c.JSON(errorStatus(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}
