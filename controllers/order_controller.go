package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/middleware"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Checkout converts the caller's cart into an order and returns it together
// with the WhatsApp link carrying the order summary.
func (ctl *OrderController) Checkout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	result, appErr := ctl.orders.Checkout(c.Request.Context(), user.ID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetMyOrders lists the caller's orders, newest first.
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	orders, appErr := ctl.orders.GetUserOrders(c.Request.Context(), user.ID, user.IsAdmin, user.ID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetUserOrders lists another user's orders. Non-admins may only request
// their own.
func (ctl *OrderController) GetUserOrders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do usuario invalido"))
		return
	}

	orders, appErr := ctl.orders.GetUserOrders(c.Request.Context(), user.ID, user.IsAdmin, userID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetAllOrders lists every order, admin only.
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	orders, appErr := ctl.orders.GetAllOrders(c.Request.Context(), user.IsAdmin)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order. The caller must own it or be an admin.
func (ctl *OrderController) GetOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do pedido invalido"))
		return
	}

	order, appErr := ctl.orders.GetOrderByID(c.Request.Context(), user.ID, user.IsAdmin, orderID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus changes an order's status, admin only.
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do pedido invalido"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	order, appErr := ctl.orders.UpdateStatus(c.Request.Context(), user.IsAdmin, orderID, req.Status)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order, admin only.
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do pedido invalido"))
		return
	}

	if appErr := ctl.orders.DeleteOrder(c.Request.Context(), user.IsAdmin, orderID); appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pedido removido com sucesso"})
}
