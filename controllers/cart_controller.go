package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/middleware"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// GetCart returns the caller's cart, creating an empty one on first access.
func (ctl *CartController) GetCart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	cart, appErr := ctl.carts.GetCart(c.Request.Context(), user.ID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem adds a product line to the caller's cart, merging with an existing
// line of the same product and size.
func (ctl *CartController) AddItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do produto invalido"))
		return
	}

	cart, appErr := ctl.carts.AddItem(c.Request.Context(), user.ID, services.AddItemCommand{
		ProductID: productID,
		Quantity:  req.Quantity,
		Size:      req.Size,
	})
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItem changes the quantity or size of a cart line. Quantity zero or
// below removes the line.
func (ctl *CartController) UpdateItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do produto invalido"))
		return
	}

	cart, appErr := ctl.carts.UpdateItem(c.Request.Context(), user.ID, services.UpdateItemCommand{
		ProductID: productID,
		Quantity:  req.Quantity,
		Size:      req.Size,
	})
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem deletes the cart line matching the product and size in the path.
func (ctl *CartController) RemoveItem(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do produto invalido"))
		return
	}

	cart, appErr := ctl.carts.RemoveItem(c.Request.Context(), user.ID, productID, c.Param("size"))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart empties the caller's cart.
func (ctl *CartController) ClearCart(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	cart, appErr := ctl.carts.ClearCart(c.Request.Context(), user.ID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}
