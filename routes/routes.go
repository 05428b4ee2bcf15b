package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/controllers"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/middleware"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Cart       *controllers.CartController
	Orders     *controllers.OrderController
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Users      *controllers.UserController
	Dashboard  *controllers.DashboardController
}

// Register mounts the full API under /api. Protected groups require the
// session cookie; admin groups additionally require an admin account.
func Register(r *gin.Engine, ctl Controllers, tokens *services.TokenService, users repository.UserRepository) {
	protect := middleware.Protect(tokens, users)
	adminOnly := middleware.AdminOnly()

	api := r.Group("/api")

	auth := api.Group("/auth", middleware.RateLimit())
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/verify", ctl.Auth.Verify)
		auth.POST("/login", ctl.Auth.Login)
		auth.GET("/me", protect, ctl.Auth.Me)
		auth.POST("/logout", ctl.Auth.Logout)
	}

	cart := api.Group("/cart", protect)
	{
		cart.GET("", ctl.Cart.GetCart)
		cart.POST("", ctl.Cart.AddItem)
		cart.PUT("", ctl.Cart.UpdateItem)
		cart.DELETE("", ctl.Cart.ClearCart)
		cart.DELETE("/:productId/:size", ctl.Cart.RemoveItem)
	}

	orders := api.Group("/orders", protect)
	{
		orders.POST("", ctl.Orders.Checkout)
		orders.GET("", ctl.Orders.GetMyOrders)
		orders.GET("/admin", adminOnly, ctl.Orders.GetAllOrders)
		orders.GET("/user/:id", ctl.Orders.GetUserOrders)
		orders.GET("/:id", ctl.Orders.GetOrder)
		orders.PUT("/:id", adminOnly, ctl.Orders.UpdateStatus)
		orders.DELETE("/:id", adminOnly, ctl.Orders.DeleteOrder)
	}

	products := api.Group("/products")
	{
		products.GET("", ctl.Products.ListProducts)
		products.GET("/:id", ctl.Products.GetProduct)
		products.POST("", protect, adminOnly, ctl.Products.CreateProduct)
		products.PUT("/:id", protect, adminOnly, ctl.Products.UpdateProduct)
		products.DELETE("/:id", protect, adminOnly, ctl.Products.DeleteProduct)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", ctl.Categories.ListCategories)
		categories.POST("", protect, adminOnly, ctl.Categories.CreateCategory)
		categories.PUT("/:id", protect, adminOnly, ctl.Categories.UpdateCategory)
		categories.DELETE("/:id", protect, adminOnly, ctl.Categories.DeleteCategory)
	}

	usersGroup := api.Group("/users", protect)
	{
		usersGroup.GET("", adminOnly, ctl.Users.ListUsers)
		usersGroup.GET("/:id", ctl.Users.GetUser)
		usersGroup.DELETE("/:id", adminOnly, ctl.Users.DeleteUser)
	}

	api.GET("/dashboard", protect, adminOnly, ctl.Dashboard.GetMetrics)
}
