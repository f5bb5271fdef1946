package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/middleware"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// CartManager is the cart store surface the handlers need.
type CartManager interface {
	Get(ctx context.Context, owner string) (*models.Cart, error)
	AddLine(ctx context.Context, owner, productID, site string, qty int) (*models.Cart, error)
	RemoveLine(ctx context.Context, owner, productID string) (*models.Cart, error)
	AdjustQuantity(ctx context.Context, owner, productID string, delta int) (*models.Cart, error)
	Clear(ctx context.Context, owner string) error
}

type CartController struct {
	carts CartManager
}

func NewCartController(carts CartManager) *CartController {
	return &CartController{carts: carts}
}

func cartResponse(cart *models.Cart) gin.H {
	return gin.H{"cart": cart, "count": cart.Count()}
}

// GetCart returns the cart for the active identity (or guest).
func (cc *CartController) GetCart(c *gin.Context) {
	cart, err := cc.carts.Get(c.Request.Context(), middleware.CartOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

type addLineRequest struct {
	ProductID    string `json:"product_id" binding:"required"`
	SelectedSite string `json:"selected_site" binding:"required"`
	Quantity     int    `json:"quantity"`
}

// AddLine adds or merges a (product, site) line.
func (cc *CartController) AddLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := cc.carts.AddLine(c.Request.Context(), middleware.CartOwner(c), req.ProductID, req.SelectedSite, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveLine removes every line of a product, across retailers.
func (cc *CartController) RemoveLine(c *gin.Context) {
	productID := c.Param("product_id")

	cart, err := cc.carts.RemoveLine(c.Request.Context(), middleware.CartOwner(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

type adjustRequest struct {
	// Pointer so a literal zero delta binds as an explicit no-op instead
	// of tripping gin's required-means-nonzero rule.
	Delta *int `json:"delta" binding:"required"`
}

// AdjustQuantity applies a delta to a product's lines, floored at 1.
func (cc *CartController) AdjustQuantity(c *gin.Context) {
	productID := c.Param("product_id")

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	cart, err := cc.carts.AdjustQuantity(c.Request.Context(), middleware.CartOwner(c), productID, *req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart empties the cart for the active identity.
func (cc *CartController) ClearCart(c *gin.Context) {
	if err := cc.carts.Clear(c.Request.Context(), middleware.CartOwner(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
