package domain

import "time"

const (
	OrderStatusPending   = "Pending"
	OrderStatusCancelled = "Cancelled"

	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "Online"
)

// Address is the delivery address captured on the order.
type Address struct {
	FullName string `gorm:"column:full_name" json:"full_name"`
	Street   string `gorm:"column:street" json:"street"`
	City     string `gorm:"column:city" json:"city"`
	Zip      string `gorm:"column:zip" json:"zip"`
	Phone    string `gorm:"column:phone" json:"phone"`
}

// Order is created once at checkout. The only mutation afterwards is
// cancellation (status + cancelled_at). Orders are never deleted.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderRef      string      `gorm:"column:order_ref;uniqueIndex" json:"order_ref"`
	UserID        uint        `gorm:"column:user_id;index;not null" json:"user_id"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Address       Address     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	PaymentMethod string      `gorm:"column:payment_method;default:COD" json:"payment_method"`
	TotalAmount   float64     `gorm:"column:total_amount;type:numeric" json:"total_amount"`
	Status        string      `gorm:"column:status;default:Pending" json:"status"`
	PlacedAt      time.Time   `gorm:"column:placed_at" json:"placed_at"`
	CancelledAt   *time.Time  `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a product at purchase time. Name and
// Price stay authoritative for amounts even if the live product changes
// later; Product is only preloaded for display.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"column:order_id;index" json:"order_id"`
	ProductID uint64  `gorm:"column:product_id" json:"product_id"`
	Name      string  `gorm:"column:name" json:"name"`
	Price     float64 `gorm:"column:price;type:numeric" json:"price"`
	Quantity  int     `gorm:"column:quantity" json:"quantity"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
}

// OrderLine is a requested (product, quantity) pair at checkout.
type OrderLine struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (Order) TableName() string {
	return "orders"
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderTotal sums price x quantity over the line snapshots.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	return total
}
