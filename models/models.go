package models

import "time"

// User is an account record. Password is the bcrypt hash and never leaves
// the server; handlers serialize users with the json "-" tag in effect.
type User struct {
	UserID      string    `bson:"userid" json:"id"`
	Username    string    `bson:"username" json:"username"`
	Password    string    `bson:"password" json:"-"`
	Email       string    `bson:"email" json:"email"`
	FullName    string    `bson:"fullName" json:"fullName"`
	PhoneNumber string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	IsAdmin     bool      `bson:"isAdmin" json:"isAdmin"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Product prices are integer minor-currency units (centimes).
// Discount is a percentage in [0,100].
type Product struct {
	ProductID   string    `bson:"productid" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Price       int       `bson:"price" json:"price"`
	ImageURL    string    `bson:"imageUrl" json:"imageUrl"`
	Category    string    `bson:"category" json:"category"`
	Subcategory string    `bson:"subcategory" json:"subcategory"`
	Stock       int       `bson:"stock" json:"stock"`
	Featured    bool      `bson:"featured" json:"featured"`
	Discount    int       `bson:"discount" json:"discount"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// CartLine is one persisted cart row for an authenticated user.
// At most one row exists per (user, product).
type CartLine struct {
	UserID    string    `bson:"userid" json:"-"`
	ProductID string    `bson:"productid" json:"productId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

// CartEntry is the joined view returned by GET /api/cart.
type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Order statuses.
const (
	OrderPending   = "pending"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order is the order header. UserID is empty for guest checkout.
// TotalAmount always equals the sum of quantity × priceAtPurchase
// over the order's items.
type Order struct {
	OrderID         string    `bson:"orderid" json:"id"`
	UserID          string    `bson:"userid,omitempty" json:"userId,omitempty"`
	Status          string    `bson:"status" json:"status"`
	TotalAmount     int       `bson:"totalAmount" json:"totalAmount"`
	CustomerName    string    `bson:"customerName" json:"customerName"`
	CustomerEmail   string    `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone   string    `bson:"customerPhone" json:"customerPhone"`
	ShippingAddress string    `bson:"shippingAddress" json:"shippingAddress"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem freezes the unit price at purchase time. Immutable after insert.
type OrderItem struct {
	ItemID          string `bson:"itemid" json:"id"`
	OrderID         string `bson:"orderid" json:"orderId"`
	ProductID       string `bson:"productid" json:"productId"`
	Quantity        int    `bson:"quantity" json:"quantity"`
	PriceAtPurchase int    `bson:"priceAtPurchase" json:"priceAtPurchase"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	SalesByMonth    map[string]int   `json:"salesByMonth"`
	TotalSales      int              `json:"totalSales"`
	TotalOrders     int              `json:"totalOrders"`
	TotalCustomers  int              `json:"totalCustomers"`
	PopularProducts []PopularProduct `json:"popularProducts"`
}

type PopularProduct struct {
	ProductID string `bson:"_id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Sales     int    `bson:"sales" json:"sales"`
}

// OrderEvent is published on redis pub/sub when an order is placed or
// its status changes; the admin live feed relays it.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	Status      string    `json:"status"`
	TotalAmount int       `json:"totalAmount"`
	At          time.Time `json:"at"`
}
