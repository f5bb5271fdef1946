package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/clients"
	"github.com/Juli03-22/lookaly-fullstack/middleware"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// AdminAPI is the back-office surface of the upstream: catalog CRUD,
// user management and order administration.
type AdminAPI interface {
	CreateProduct(ctx context.Context, token string, payload map[string]interface{}) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, payload map[string]interface{}) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, productID string) error
	CreateBrand(ctx context.Context, token, name string) (*models.Brand, error)
	DeleteBrand(ctx context.Context, token, brandID string) error
	CreatePrice(ctx context.Context, token string, payload map[string]interface{}) (*models.Price, error)
	UpdatePrice(ctx context.Context, token, priceID string, payload map[string]interface{}) (*models.Price, error)
	DeletePrice(ctx context.Context, token, priceID string) error
	ListUsers(ctx context.Context, token string) ([]clients.AdminUser, error)
	UpdateUser(ctx context.Context, token, userID string, payload map[string]interface{}) (*clients.AdminUser, error)
	AdminListOrders(ctx context.Context, token string, page, size int, status string) (*models.OrderList, error)
	AdminUpdateOrder(ctx context.Context, token, orderID string, payload map[string]interface{}) (*models.Order, error)
}

type AdminController struct {
	api AdminAPI
}

func NewAdminController(api AdminAPI) *AdminController {
	return &AdminController{api: api}
}

func bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return nil, false
	}
	return payload, true
}

func (a *AdminController) CreateProduct(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	product, err := a.api.CreateProduct(c.Request.Context(), middleware.CurrentSession(c).Token, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (a *AdminController) UpdateProduct(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	product, err := a.api.UpdateProduct(c.Request.Context(), middleware.CurrentSession(c).Token, c.Param("product_id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *AdminController) DeleteProduct(c *gin.Context) {
	if err := a.api.DeleteProduct(c.Request.Context(), middleware.CurrentSession(c).Token, c.Param("product_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type brandRequest struct {
	Name string `json:"name" binding:"required"`
}

func (a *AdminController) CreateBrand(c *gin.Context) {
	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	brand, err := a.api.CreateBrand(c.Request.Context(), middleware.CurrentSession(c).Token, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brand)
}

func (a *AdminController) DeleteBrand(c *gin.Context) {
	if err := a.api.DeleteBrand(c.Request.Context(), middleware.CurrentSession(c).Token, c.Param("brand_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *AdminController) CreatePrice(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	price, err := a.api.CreatePrice(c.Request.Context(), middleware.CurrentSession(c).Token, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, price)
}

func (a *AdminController) UpdatePrice(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	price, err := a.api.UpdatePrice(c.Request.Context(), middleware.CurrentSession(c).Token, c.Param("price_id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (a *AdminController) DeletePrice(c *gin.Context) {
	if err := a.api.DeletePrice(c.Request.Context(), middleware.CurrentSession(c).Token, c.Param("price_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *AdminController) ListUsers(c *gin.Context) {
	users, err := a.api.ListUsers(c.Request.Context(), middleware.CurrentSession(c).Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser changes a user's role, admin flag or active state.
func (a *AdminController) UpdateUser(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	user, err := a.api.UpdateUser(c.Request.Context(), middleware.CurrentSession(c).Token, c.Param("user_id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *AdminController) ListOrders(c *gin.Context) {
	list, err := a.api.AdminListOrders(
		c.Request.Context(),
		middleware.CurrentSession(c).Token,
		queryInt(c, "page", 1),
		queryInt(c, "size", 20),
		c.Query("status"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateOrder changes status, shipping address or payment date.
func (a *AdminController) UpdateOrder(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	order, err := a.api.AdminUpdateOrder(c.Request.Context(), middleware.CurrentSession(c).Token, c.Param("order_id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
