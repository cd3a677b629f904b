package orders

import (
	"fmt"
	"strings"

	"megaMart/domain"
)

const (
	subjectOrderConfirmed      = "Order Confirmation - MegaMart"
	subjectAdminNewOrder       = "New Order Received - MegaMart"
	subjectOrderCancelled      = "Order Cancelled - MegaMart"
	subjectAdminOrderCancelled = "Order Cancelled (Admin Copy) - MegaMart"
)

func renderOrderPlacedCustomer(user domain.User, order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Thank you for shopping with MegaMart!</h2>")
	fmt.Fprintf(&b, "<p>Hi <strong>%s</strong>, your order <strong>%s</strong> was placed successfully.</p>", user.Username, order.OrderRef)
	fmt.Fprintf(&b, "<p><strong>Placed on:</strong> %s</p>", order.PlacedAt.Format("02 Jan 2006 15:04"))
	b.WriteString(renderAddress(order.Address))
	b.WriteString(renderItemsTable(order.Items))
	fmt.Fprintf(&b, "<p><strong>Payment:</strong> %s</p>", order.PaymentMethod)
	fmt.Fprintf(&b, "<p><strong>Total:</strong> %.2f</p>", order.TotalAmount)

	return b.String()
}

func renderOrderPlacedAdmin(user domain.User, order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>New Order Received</h2>")
	fmt.Fprintf(&b, "<p><strong>Order:</strong> %s</p>", order.OrderRef)
	fmt.Fprintf(&b, "<p><strong>Customer:</strong> %s (%s)</p>", user.Username, user.Email)
	b.WriteString(renderAddress(order.Address))
	b.WriteString(renderItemsTable(order.Items))
	fmt.Fprintf(&b, "<p><strong>Payment:</strong> %s</p>", order.PaymentMethod)
	fmt.Fprintf(&b, "<p><strong>Total:</strong> %.2f</p>", order.TotalAmount)

	return b.String()
}

func renderOrderCancelledCustomer(user domain.User, order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Order Cancelled</h2>")
	fmt.Fprintf(&b, "<p>Hi <strong>%s</strong>, your order <strong>%s</strong> has been cancelled.</p>", user.Username, order.OrderRef)
	if order.CancelledAt != nil {
		fmt.Fprintf(&b, "<p><strong>Cancelled on:</strong> %s</p>", order.CancelledAt.Format("02 Jan 2006 15:04"))
	}
	b.WriteString(renderItemsTable(order.Items))
	fmt.Fprintf(&b, "<p><strong>Total refunded / not charged:</strong> %.2f</p>", order.TotalAmount)

	return b.String()
}

func renderOrderCancelledAdmin(user domain.User, order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Order Cancelled</h2>")
	fmt.Fprintf(&b, "<p><strong>Order:</strong> %s</p>", order.OrderRef)
	fmt.Fprintf(&b, "<p><strong>Customer:</strong> %s (%s)</p>", user.Username, user.Email)
	b.WriteString(renderItemsTable(order.Items))
	fmt.Fprintf(&b, "<p>Inventory restored automatically.</p>")

	return b.String()
}

func renderAddress(a domain.Address) string {
	return fmt.Sprintf(
		"<h3>Delivery Address</h3><p>%s<br/>%s<br/>%s, %s - %s</p>",
		a.FullName, a.Phone, a.Street, a.City, a.Zip,
	)
}

// amounts come from the line snapshots, not the live product
func renderItemsTable(items []domain.OrderItem) string {
	var b strings.Builder

	b.WriteString("<h3>Order Summary</h3><table><thead><tr><th>Name</th><th>Price</th><th>Qty</th><th>Amount</th></tr></thead><tbody>")
	for _, item := range items {
		fmt.Fprintf(&b,
			"<tr><td>%s</td><td>%.2f</td><td>%d</td><td>%.2f</td></tr>",
			item.Name, item.Price, item.Quantity, item.Price*float64(item.Quantity),
		)
	}
	b.WriteString("</tbody></table>")

	return b.String()
}
