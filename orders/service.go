// Package orders implements checkout: it converts a resolved cart into a
// persisted order plus line items, decrements stock, and clears the source
// cart — atomically with respect to partial failure.
package orders

import (
	"context"
	"log"
	"time"

	"souq/cart"
	"souq/db"
	"souq/errs"
	"souq/events"
	"souq/metrics"
	"souq/models"
	"souq/products"
	"souq/utils"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CustomerInfo is the contact/shipping snapshot frozen into the order header.
type CustomerInfo struct {
	Name            string `json:"customerName"`
	Email           string `json:"customerEmail"`
	Phone           string `json:"customerPhone"`
	ShippingAddress string `json:"shippingAddress"`
}

func (c CustomerInfo) validate() error {
	if c.Name == "" || c.Email == "" || c.Phone == "" || c.ShippingAddress == "" {
		return errs.Validation("Customer name, email, phone and shipping address are required")
	}
	return nil
}

// UnitPrice applies the discount percentage with half-up rounding to the
// nearest minor-currency unit. Integer arithmetic only.
func UnitPrice(price, discount int) int {
	if discount <= 0 {
		return price
	}
	return (price*(100-discount) + 50) / 100
}

// catalog is the product lookup buildLines needs; tests swap in a map.
type catalog interface {
	ByID(ctx context.Context, id string) (*models.Product, error)
}

type liveCatalog struct{}

func (liveCatalog) ByID(ctx context.Context, id string) (*models.Product, error) {
	return products.ByID(ctx, id)
}

// buildLines validates every cart line against the catalog and freezes unit
// prices. The returned total is exactly Σ quantity × priceAtPurchase.
func buildLines(ctx context.Context, cat catalog, items map[string]int) ([]models.OrderItem, int, error) {
	if len(items) == 0 {
		return nil, 0, errs.ErrEmptyCart
	}

	lines := make([]models.OrderItem, 0, len(items))
	total := 0
	for productID, quantity := range items {
		if quantity < 1 {
			return nil, 0, errs.Validation("Quantity must be at least 1")
		}

		p, err := cat.ByID(ctx, productID)
		if err != nil {
			var domainErr *errs.Error
			if errors.As(err, &domainErr) {
				return nil, 0, errs.ProductNotFound(productID)
			}
			return nil, 0, err
		}

		if p.Stock < quantity {
			return nil, 0, errs.InsufficientStock(p.Name)
		}

		unit := UnitPrice(p.Price, p.Discount)
		lines = append(lines, models.OrderItem{
			ItemID:          "l" + utils.GenerateID(12),
			ProductID:       productID,
			Quantity:        quantity,
			PriceAtPurchase: unit,
		})
		total += unit * quantity
	}
	return lines, total, nil
}

// persister commits the order header, its lines, and the stock decrements as
// one unit; the live implementation wraps them in a mongo transaction.
type persister func(ctx context.Context, order *models.Order, lines []models.OrderItem) error

// PlaceOrder validates the resolved cart, persists the order header and its
// items, and decrements stock — all inside one mongo transaction, so a
// failure at any step leaves no partial order and no partial decrement. The
// per-line decrement carries a stock >= quantity guard; when two concurrent
// checkouts race for the last unit, exactly one passes the guard and the
// other aborts with InsufficientStock. The source cart is cleared exactly
// once, after commit.
func PlaceOrder(ctx context.Context, customer CustomerInfo, userID string, c cart.Cart) (*models.Order, error) {
	return placeOrder(ctx, customer, userID, c, liveCatalog{}, persistOrder)
}

func placeOrder(ctx context.Context, customer CustomerInfo, userID string, c cart.Cart, cat catalog, persist persister) (*models.Order, error) {
	if err := customer.validate(); err != nil {
		return nil, err
	}

	items, err := c.Items(ctx)
	if err != nil {
		return nil, err
	}

	lines, total, err := buildLines(ctx, cat, items)
	if err != nil {
		metrics.RecordOrderOperation("place", false)
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderID:         "o" + utils.GenerateID(12),
		UserID:          userID,
		Status:          models.OrderPending,
		TotalAmount:     total,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		ShippingAddress: customer.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range lines {
		lines[i].OrderID = order.OrderID
	}

	if err := persist(ctx, order, lines); err != nil {
		metrics.RecordOrderOperation("place", false)
		return nil, err
	}

	if err := c.Clear(ctx); err != nil {
		// The order is committed; an uncleared cart is recoverable noise.
		log.Printf("orders: clearing cart after order %s failed: %v", order.OrderID, err)
	}

	metrics.RecordOrderOperation("place", true)
	events.EmitOrder("order.placed", order)
	return order, nil
}

func persistOrder(ctx context.Context, order *models.Order, lines []models.OrderItem) error {
	sess, err := db.Client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrdersCollection.InsertOne(sc, order); err != nil {
			return nil, errors.Wrap(err, "insert order")
		}

		docs := make([]interface{}, len(lines))
		for i, line := range lines {
			docs[i] = line
		}
		if _, err := db.OrderItemsCollection.InsertMany(sc, docs); err != nil {
			return nil, errors.Wrap(err, "insert order items")
		}

		for _, line := range lines {
			if err := products.AdjustStock(sc, line.ProductID, -line.Quantity); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Transition graph for admin status updates. delivered and cancelled are
// terminal.
var transitions = map[string][]string{
	models.OrderPending: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped: {models.OrderDelivered, models.OrderCancelled},
}

// ValidateTransition reports whether from -> to is a legal status change.
func ValidateTransition(from, to string) error {
	for _, allowed := range transitions[from] {
		if to == allowed {
			return nil
		}
	}
	return errs.ErrInvalidStatus
}

// UpdateStatus moves an order through the status graph (admin-driven).
func UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	current, err := ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(current.Status, status); err != nil {
		metrics.RecordOrderOperation("status", false)
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err = db.OrdersCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": orderID, "status": current.Status},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Lost a race with another transition; the graph no longer applies.
		metrics.RecordOrderOperation("status", false)
		return nil, errs.ErrInvalidStatus
	}
	if err != nil {
		metrics.RecordOrderOperation("status", false)
		return nil, errors.Wrap(err, "update order status")
	}

	metrics.RecordOrderOperation("status", true)
	events.EmitOrder("order.status", &updated)
	return &updated, nil
}
