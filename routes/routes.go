package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/controllers"
	"github.com/Juli03-22/lookaly-fullstack/middleware"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

type Controllers struct {
	Auth    *controllers.AuthController
	TwoFA   *controllers.TwoFAController
	Cart    *controllers.CartController
	Catalog *controllers.CatalogController
	Orders  *controllers.OrderController
	Admin   *controllers.AdminController
}

// Register wires all routes. Every route runs behind session resolution so
// guests get a cart bucket; auth/role gates are applied per group.
func Register(r *gin.Engine, sessions middleware.SessionResolver, c Controllers) {
	r.Use(middleware.ResolveSession(sessions))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimit(), c.Auth.Login)
		auth.POST("/register", middleware.LoginRateLimit(), c.Auth.Register)
		auth.GET("/google/url", c.Auth.GoogleAuthURL)
		auth.POST("/token", middleware.LoginRateLimit(), c.Auth.AdoptToken)
		auth.POST("/logout", c.Auth.Logout)
		auth.GET("/me", c.Auth.Me)
		auth.POST("/me/refresh", c.Auth.RefreshMe)
	}

	twofa := r.Group("/2fa")
	twofa.Use(middleware.RequireAuth())
	{
		twofa.POST("/setup", c.TwoFA.Setup)
		twofa.POST("/confirm", c.TwoFA.Confirm)
		twofa.POST("/disable", c.TwoFA.Disable)
		twofa.GET("/status", c.TwoFA.Status)
	}

	// Cart is available to guests; the owner bucket comes from the session.
	cart := r.Group("/cart")
	{
		cart.GET("", c.Cart.GetCart)
		cart.POST("/items", c.Cart.AddLine)
		cart.PATCH("/items/:product_id", c.Cart.AdjustQuantity)
		cart.DELETE("/items/:product_id", c.Cart.RemoveLine)
		cart.DELETE("", c.Cart.ClearCart)
		cart.GET("/totals", c.Orders.CartTotals)
	}

	r.GET("/products", c.Catalog.ListProducts)
	r.GET("/products/:product_id", c.Catalog.GetProduct)
	r.GET("/products/:product_id/prices", c.Catalog.ProductPrices)
	r.GET("/brands", c.Catalog.ListBrands)

	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth())
	{
		orders.POST("/checkout", c.Orders.Checkout)
		orders.GET("", c.Orders.MyOrders)
		orders.GET("/:order_id", c.Orders.OrderByID)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth())
	{
		inventory := admin.Group("")
		inventory.Use(middleware.RequireRole(models.RoleInventoryManager, models.RoleSalesperson))
		{
			inventory.POST("/products", c.Admin.CreateProduct)
			inventory.PATCH("/products/:product_id", c.Admin.UpdateProduct)
			inventory.DELETE("/products/:product_id", c.Admin.DeleteProduct)
			inventory.POST("/prices", c.Admin.CreatePrice)
			inventory.PATCH("/prices/:price_id", c.Admin.UpdatePrice)
			inventory.DELETE("/prices/:price_id", c.Admin.DeletePrice)
		}

		brands := admin.Group("")
		brands.Use(middleware.RequireRole(models.RoleInventoryManager))
		{
			brands.POST("/brands", c.Admin.CreateBrand)
			brands.DELETE("/brands/:brand_id", c.Admin.DeleteBrand)
		}

		adminOnly := admin.Group("")
		adminOnly.Use(middleware.RequireAdmin())
		{
			adminOnly.GET("/users", c.Admin.ListUsers)
			adminOnly.PATCH("/users/:user_id", c.Admin.UpdateUser)
			adminOnly.GET("/orders", c.Admin.ListOrders)
			adminOnly.PATCH("/orders/:order_id", c.Admin.UpdateOrder)
		}
	}
}
