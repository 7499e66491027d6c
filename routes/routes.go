package routes

import (
	"souq/admin"
	"souq/auth"
	"souq/cart"
	"souq/events"
	"souq/metrics"
	"souq/middleware"
	"souq/orders"
	"souq/products"
	"souq/ratelim"
	"souq/uploads"

	"github.com/julienschmidt/httprouter"
)

// m instruments a route with the prometheus middleware; the pattern keeps
// the metric label cardinality bounded.
func m(pattern string, h httprouter.Handle) httprouter.Handle {
	return metrics.Instrument(pattern, h)
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", m("/api/auth/register", ratelim.RateLimit(middleware.LoadSession(auth.Register))))
	router.POST("/api/auth/login", m("/api/auth/login", ratelim.RateLimit(middleware.LoadSession(auth.Login))))
	router.POST("/api/auth/logout", m("/api/auth/logout", middleware.Authenticate(auth.Logout)))
	router.GET("/api/auth/me", m("/api/auth/me", middleware.Authenticate(auth.Me)))
}

func AddProductRoutes(router *httprouter.Router) {
	// httprouter cannot mix static and param segments under one prefix, so
	// /api/products/featured and /api/products/:id share a dispatch handler;
	// the category and subcategory listings ride the two-segment route.
	router.GET("/api/products", m("/api/products", products.GetProducts))
	router.GET("/api/products/:id", m("/api/products/:id", products.GetProductResource))
	router.GET("/api/products/:id/:value", m("/api/products/:id/:value", products.GetProductListing))

	router.POST("/api/products", m("/api/products", middleware.AdminOnly(products.CreateProduct)))
	router.PATCH("/api/products/:id", m("/api/products/:id", middleware.AdminOnly(products.UpdateProduct)))
	router.DELETE("/api/products/:id", m("/api/products/:id", middleware.AdminOnly(products.DeleteProduct)))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", m("/api/cart", middleware.LoadSession(cart.GetCart)))
	router.POST("/api/cart", m("/api/cart", middleware.LoadSession(cart.AddToCart)))
	router.DELETE("/api/cart", m("/api/cart", middleware.LoadSession(cart.ClearCart)))
	router.DELETE("/api/cart/:productId", m("/api/cart/:productId", middleware.LoadSession(cart.RemoveFromCart)))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders", m("/api/orders", ratelim.RateLimit(middleware.LoadSession(orders.CreateOrder))))
	router.GET("/api/orders", m("/api/orders", middleware.Authenticate(orders.GetMyOrders)))
	router.GET("/api/orders/:id", m("/api/orders/:id", middleware.Authenticate(orders.GetOrder)))
	router.GET("/api/orders/:id/invoice", m("/api/orders/:id/invoice", middleware.Authenticate(orders.GetInvoice)))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/orders", m("/api/admin/orders", middleware.AdminOnly(admin.GetAllOrders)))
	router.GET("/api/admin/orders/live", middleware.AdminOnly(events.OrderFeed))
	router.PATCH("/api/admin/orders/:id", m("/api/admin/orders/:id", middleware.AdminOnly(admin.UpdateOrderStatus)))
	router.GET("/api/admin/customers", m("/api/admin/customers", middleware.AdminOnly(admin.GetCustomers)))
	router.DELETE("/api/admin/customers/:id", m("/api/admin/customers/:id", middleware.AdminOnly(admin.DeleteCustomer)))
	router.GET("/api/admin/stats", m("/api/admin/stats", middleware.AdminOnly(admin.GetStats)))
	router.PUT("/api/admin/profile", m("/api/admin/profile", middleware.AdminOnly(admin.UpdateProfile)))
}

func AddUploadRoutes(router *httprouter.Router) {
	router.GET("/api/uploads/signature", m("/api/uploads/signature", middleware.AdminOnly(uploads.GetSignature)))
	router.POST("/api/uploads/products", m("/api/uploads/products", middleware.AdminOnly(uploads.UploadProductImage)))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/metrics", metrics.Handler())
}
