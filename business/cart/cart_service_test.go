package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"megaMart/domain"
)

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[uint]*domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uint]*domain.Cart)}
}

func (r *fakeCartRepo) FindByUserID(ctx context.Context, userID uint) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return *cart, nil
}

func (r *fakeCartRepo) AddOrMergeItem(ctx context.Context, userID uint, productID uint64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		cart = &domain.Cart{UserID: userID}
		r.carts[userID] = cart
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			return nil
		}
	}

	cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (r *fakeCartRepo) SetItemQuantity(ctx context.Context, userID uint, productID uint64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return domain.ErrCartNotFound
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

func (r *fakeCartRepo) RemoveItem(ctx context.Context, userID uint, productID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items
	return nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[userID]; ok {
		cart.Items = nil
	}
	return nil
}

type fakeProductRepo struct {
	products map[uint64]domain.Product
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func newTestService() (*cartService, *fakeCartRepo) {
	cartRepo := newFakeCartRepo()
	productRepo := &fakeProductRepo{products: map[uint64]domain.Product{
		10: {ID: 10, Name: "Widget", Price: 19.5, Stock: 5},
		11: {ID: 11, Name: "Gadget", Price: 3, Stock: 2},
	}}
	return NewCartService(cartRepo, productRepo), cartRepo
}

func TestGetCart_EmptyWhenNoneExists(t *testing.T) {
	svc, _ := newTestService()

	cart, err := svc.GetCart(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if cart.UserID != 1 || len(cart.Items) != 0 {
		t.Errorf("expected empty cart for user 1, got %+v", cart)
	}
}

func TestAddItem_MergesDuplicateProduct(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 1, 10, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(ctx, 1, 10, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestAddItem_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 1, 10, 0); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := svc.AddItem(ctx, 1, 10, -2); err == nil {
		t.Error("expected error for negative quantity")
	}
	if _, err := svc.AddItem(ctx, 1, 99, 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SetQuantity(ctx, 1, 10, 2); !errors.Is(err, domain.ErrCartNotFound) {
		t.Errorf("expected ErrCartNotFound, got %v", err)
	}

	if _, err := svc.AddItem(ctx, 1, 10, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.SetQuantity(ctx, 1, 11, 2); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Errorf("expected ErrCartItemNotFound, got %v", err)
	}

	cart, err := svc.SetQuantity(ctx, 1, 10, 7)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if cart.Items[0].Quantity != 7 {
		t.Errorf("expected overwritten quantity 7, got %d", cart.Items[0].Quantity)
	}

	if _, err := svc.SetQuantity(ctx, 1, 10, 0); err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// no cart at all
	if _, err := svc.RemoveItem(ctx, 1, 10); err != nil {
		t.Errorf("remove with no cart must be a no-op, got %v", err)
	}

	if _, err := svc.AddItem(ctx, 1, 10, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	// line absent
	cart, err := svc.RemoveItem(ctx, 1, 11)
	if err != nil {
		t.Errorf("remove of absent line must be a no-op, got %v", err)
	}
	if len(cart.Items) != 1 {
		t.Errorf("expected remaining line untouched, got %d items", len(cart.Items))
	}

	// line present
	cart, err = svc.RemoveItem(ctx, 1, 10)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestClear(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 1, 10, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, 1, 11, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}

	cart, _ := repo.FindByUserID(ctx, 1)
	if len(cart.Items) != 0 {
		t.Errorf("expected cleared cart, got %d items", len(cart.Items))
	}
}
