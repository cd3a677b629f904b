package router

import (
	"megaMart/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/signup", handler.Signup)
	auth.POST("/login", handler.Login)
	auth.GET("/check", handler.Check)

	auth.POST("/logout", handler.Logout, authRequired)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/search", handler.SearchProducts)
	products.GET("/:id", handler.GetProductByID)

	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired echo.MiddlewareFunc) {
	cart := api.Group("/cart", authRequired)

	cart.GET("", handler.GetCart)
	cart.POST("", handler.AddItem)
	cart.PUT("/:product_id", handler.UpdateItem)
	cart.DELETE("/:product_id", handler.RemoveItem)
}

func SetupOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.POST("", handler.PlaceOrder)
	orders.GET("", handler.GetUserOrders)
	orders.PATCH("/:id/cancel", handler.CancelOrder)
}
