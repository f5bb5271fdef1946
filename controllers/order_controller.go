package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/middleware"
	"github.com/Juli03-22/lookaly-fullstack/models"
	"github.com/Juli03-22/lookaly-fullstack/services"
)

// CheckoutManager prices carts and places orders.
type CheckoutManager interface {
	Price(ctx context.Context, owner string) (*services.Totals, error)
	Checkout(ctx context.Context, session *models.Session, owner, shippingAddress string) (*models.Order, error)
}

// OrdersAPI is the order-history surface of the upstream.
type OrdersAPI interface {
	MyOrders(ctx context.Context, token string) ([]models.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*models.Order, error)
}

type OrderController struct {
	checkout CheckoutManager
	api      OrdersAPI
}

func NewOrderController(checkout CheckoutManager, api OrdersAPI) *OrderController {
	return &OrderController{checkout: checkout, api: api}
}

// CartTotals prices the active cart (subtotal, shipping, total).
func (oc *OrderController) CartTotals(c *gin.Context) {
	totals, err := oc.checkout.Price(c.Request.Context(), middleware.CartOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// Checkout places an order from the current cart and clears it.
func (oc *OrderController) Checkout(c *gin.Context) {
	session := middleware.CurrentSession(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	order, err := oc.checkout.Checkout(c.Request.Context(), session, middleware.CartOwner(c), req.ShippingAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// MyOrders lists the authenticated user's orders.
func (oc *OrderController) MyOrders(c *gin.Context) {
	session := middleware.CurrentSession(c)

	orders, err := oc.api.MyOrders(c.Request.Context(), session.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// OrderByID returns one of the user's orders.
func (oc *OrderController) OrderByID(c *gin.Context) {
	session := middleware.CurrentSession(c)

	order, err := oc.api.GetOrder(c.Request.Context(), session.Token, c.Param("order_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
