package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"megaMart/domain"
)

// in-memory OrdersRepository mirroring the conditional-decrement semantics
// of the SQL implementation
type fakeOrdersRepo struct {
	mu       sync.Mutex
	products map[uint64]*domain.Product
	orders   map[uint]*domain.Order
	nextID   uint
}

func newFakeOrdersRepo(products ...*domain.Product) *fakeOrdersRepo {
	repo := &fakeOrdersRepo{
		products: make(map[uint64]*domain.Product),
		orders:   make(map[uint]*domain.Order),
	}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeOrdersRepo) PlaceOrder(ctx context.Context, order *domain.Order, lines []domain.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// stage decrements so a late failure leaves stock untouched
	staged := make(map[uint64]int)
	items := make([]domain.OrderItem, 0, len(lines))

	for _, line := range lines {
		product, ok := r.products[line.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if product.Stock-staged[line.ProductID] < line.Quantity {
			return domain.ErrInsufficientStock
		}
		staged[line.ProductID] += line.Quantity
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
	}

	for id, qty := range staged {
		r.products[id].Stock -= qty
	}

	r.nextID++
	order.ID = r.nextID
	order.Items = items
	order.TotalAmount = domain.OrderTotal(items)

	stored := *order
	r.orders[order.ID] = &stored

	return nil
}

func (r *fakeOrdersRepo) CancelOrder(ctx context.Context, orderID uint) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return domain.Order{}, domain.ErrOrderNotCancelable
	}

	for _, item := range order.Items {
		if product, ok := r.products[item.ProductID]; ok {
			product.Stock += item.Quantity
		}
	}

	now := time.Now()
	order.Status = domain.OrderStatusCancelled
	order.CancelledAt = &now

	return *order, nil
}

func (r *fakeOrdersRepo) FindByID(ctx context.Context, orderID uint) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return *order, nil
}

func (r *fakeOrdersRepo) FindByUserID(ctx context.Context, userID uint) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrdersRepo) stock(id uint64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

type fakeCartRepo struct {
	mu      sync.Mutex
	cleared []uint
}

func (r *fakeCartRepo) Clear(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = append(r.cleared, userID)
	return nil
}

func (r *fakeCartRepo) clearCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cleared)
}

type fakeNotifRepo struct {
	mu      sync.Mutex
	sent    []string
	failErr error
}

func (r *fakeNotifRepo) SendEmail(toName, toEmail, subject, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.sent = append(r.sent, toEmail)
	return nil
}

func (r *fakeNotifRepo) sentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func newTestService(ordersRepo *fakeOrdersRepo, notif *fakeNotifRepo) (*ordersService, *fakeCartRepo) {
	userRepo := &fakeUserRepo{users: map[uint]domain.User{
		1: {ID: 1, Username: "alice", Email: "alice@example.com", Role: domain.RoleUser},
	}}
	cartRepo := &fakeCartRepo{}
	return NewOrdersService(ordersRepo, userRepo, cartRepo, notif, "admin@example.com"), cartRepo
}

var testAddress = domain.Address{
	FullName: "Alice A",
	Street:   "1 Main St",
	City:     "Springfield",
	Zip:      "12345",
	Phone:    "555-0100",
}

func TestPlaceOrder_TotalAndStockAndCart(t *testing.T) {
	repo := newFakeOrdersRepo(&domain.Product{ID: 10, Name: "Widget", Price: 19.5, Stock: 5})
	notif := &fakeNotifRepo{}
	svc, cartRepo := newTestService(repo, notif)

	order, err := svc.PlaceOrder(context.Background(), 1,
		[]domain.OrderLine{{ProductID: 10, Quantity: 3}},
		testAddress, domain.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if want := 3 * 19.5; order.TotalAmount != want {
		t.Errorf("expected total %v, got %v", want, order.TotalAmount)
	}
	if got := repo.stock(10); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected status Pending, got %s", order.Status)
	}
	if cartRepo.clearCount() != 1 {
		t.Errorf("expected cart cleared once, got %d", cartRepo.clearCount())
	}

	// customer + admin confirmation mails go out asynchronously
	deadline := time.After(2 * time.Second)
	for notif.sentCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected 2 emails, got %d", notif.sentCount())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPlaceOrder_UnknownProductLeavesStockUntouched(t *testing.T) {
	repo := newFakeOrdersRepo(&domain.Product{ID: 10, Name: "Widget", Price: 5, Stock: 5})
	svc, cartRepo := newTestService(repo, &fakeNotifRepo{})

	_, err := svc.PlaceOrder(context.Background(), 1,
		[]domain.OrderLine{
			{ProductID: 10, Quantity: 2},
			{ProductID: 99, Quantity: 1},
		},
		testAddress, domain.PaymentMethodCOD)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	if got := repo.stock(10); got != 5 {
		t.Errorf("expected stock unchanged at 5, got %d", got)
	}
	if cartRepo.clearCount() != 0 {
		t.Errorf("cart must not be cleared on a failed placement")
	}
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	repo := newFakeOrdersRepo(&domain.Product{ID: 10, Name: "Widget", Price: 5, Stock: 2})
	svc, _ := newTestService(repo, &fakeNotifRepo{})

	_, err := svc.PlaceOrder(context.Background(), 1,
		[]domain.OrderLine{{ProductID: 10, Quantity: 3}},
		testAddress, domain.PaymentMethodCOD)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := repo.stock(10); got != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got)
	}
}

func TestPlaceOrder_InvalidInput(t *testing.T) {
	repo := newFakeOrdersRepo(&domain.Product{ID: 10, Name: "Widget", Price: 5, Stock: 5})
	svc, _ := newTestService(repo, &fakeNotifRepo{})

	if _, err := svc.PlaceOrder(context.Background(), 1, nil, testAddress, domain.PaymentMethodCOD); err == nil {
		t.Error("expected error for empty order")
	}

	_, err := svc.PlaceOrder(context.Background(), 1,
		[]domain.OrderLine{{ProductID: 10, Quantity: 0}}, testAddress, domain.PaymentMethodCOD)
	if err == nil {
		t.Error("expected error for non-positive quantity")
	}

	_, err = svc.PlaceOrder(context.Background(), 1,
		[]domain.OrderLine{{ProductID: 10, Quantity: 1}}, testAddress, "Barter")
	if err == nil {
		t.Error("expected error for invalid payment method")
	}

	_, err = svc.PlaceOrder(context.Background(), 42,
		[]domain.OrderLine{{ProductID: 10, Quantity: 1}}, testAddress, domain.PaymentMethodCOD)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPlaceOrder_NotificationFailureDoesNotFailOrder(t *testing.T) {
	repo := newFakeOrdersRepo(&domain.Product{ID: 10, Name: "Widget", Price: 5, Stock: 5})
	notif := &fakeNotifRepo{failErr: errors.New("mailer down")}
	svc, _ := newTestService(repo, notif)

	order, err := svc.PlaceOrder(context.Background(), 1,
		[]domain.OrderLine{{ProductID: 10, Quantity: 1}},
		testAddress, domain.PaymentMethodOnline)
	if err != nil {
		t.Fatalf("order must succeed even when the mailer fails: %v", err)
	}
	if order.ID == 0 {
		t.Error("expected persisted order")
	}
}

func TestCancelOrder_RestoresStockOnce(t *testing.T) {
	repo := newFakeOrdersRepo(&domain.Product{ID: 10, Name: "Widget", Price: 19.5, Stock: 5})
	svc, _ := newTestService(repo, &fakeNotifRepo{})

	order, err := svc.PlaceOrder(context.Background(), 1,
		[]domain.OrderLine{{ProductID: 10, Quantity: 3}},
		testAddress, domain.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if got := repo.stock(10); got != 2 {
		t.Fatalf("expected stock 2 after placement, got %d", got)
	}

	cancelled, err := svc.CancelOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.OrderStatusCancelled {
		t.Errorf("expected status Cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("expected cancelled_at to be set")
	}
	if got := repo.stock(10); got != 5 {
		t.Errorf("expected stock restored to 5, got %d", got)
	}

	// a second cancel must not restore stock again
	_, err = svc.CancelOrder(context.Background(), order.ID)
	if !errors.Is(err, domain.ErrOrderNotCancelable) {
		t.Fatalf("expected ErrOrderNotCancelable, got %v", err)
	}
	if got := repo.stock(10); got != 5 {
		t.Errorf("double cancel must not double-restore, got stock %d", got)
	}
}

func TestCancelOrder_NotFound(t *testing.T) {
	repo := newFakeOrdersRepo()
	svc, _ := newTestService(repo, &fakeNotifRepo{})

	_, err := svc.CancelOrder(context.Background(), 404)
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	repo := newFakeOrdersRepo(&domain.Product{ID: 10, Name: "Widget", Price: 5, Stock: 1})
	svc, _ := newTestService(repo, &fakeNotifRepo{})

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), 1,
				[]domain.OrderLine{{ProductID: 10, Quantity: 1}},
				testAddress, domain.PaymentMethodCOD)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, outOfStock int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 || outOfStock != 1 {
		t.Errorf("expected exactly one success and one stock failure, got %d/%d", succeeded, outOfStock)
	}
	if got := repo.stock(10); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
}

func TestOrderTotal(t *testing.T) {
	items := []domain.OrderItem{
		{Price: 19.5, Quantity: 3},
		{Price: 2.25, Quantity: 4},
	}

	if got, want := domain.OrderTotal(items), 19.5*3+2.25*4; got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}
