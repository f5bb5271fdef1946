package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Juli03-22/lookaly-fullstack/clients"
	"github.com/Juli03-22/lookaly-fullstack/database"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// CatalogAPI is the read-only catalog surface of the upstream.
type CatalogAPI interface {
	ListProducts(ctx context.Context, q clients.ProductQuery) (*models.ProductList, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	PricesForProduct(ctx context.Context, productID string) ([]models.Price, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
}

// CatalogController serves product browsing with a short-TTL cache in
// front of the upstream. The cache is flushed on logout with the rest of
// the client state.
type CatalogController struct {
	api   CatalogAPI
	cache *database.CatalogCache
}

func NewCatalogController(api CatalogAPI, cache *database.CatalogCache) *CatalogController {
	return &CatalogController{api: api, cache: cache}
}

// ListProducts proxies the upstream list with paging, filters and sort.
func (cc *CatalogController) ListProducts(c *gin.Context) {
	cacheKey := "products?" + c.Request.URL.RawQuery
	if cc.cache != nil {
		if payload := cc.cache.Get(c.Request.Context(), cacheKey); payload != nil {
			c.Data(http.StatusOK, "application/json", payload)
			return
		}
	}

	q := clients.ProductQuery{
		Page:     queryInt(c, "page", 1),
		Size:     queryInt(c, "size", 20),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	list, err := cc.api.ListProducts(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	if cc.cache != nil {
		if payload, err := json.Marshal(list); err == nil {
			cc.cache.Set(c.Request.Context(), cacheKey, payload)
		}
	}
	c.JSON(http.StatusOK, list)
}

// GetProduct returns a product with its multi-retailer price comparison,
// cheapest offer first.
func (cc *CatalogController) GetProduct(c *gin.Context) {
	product, err := cc.api.GetProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	sort.Slice(product.Prices, func(i, j int) bool {
		return product.Prices[i].Price < product.Prices[j].Price
	})
	c.JSON(http.StatusOK, product)
}

// ProductPrices returns the per-site offers for a product.
func (cc *CatalogController) ProductPrices(c *gin.Context) {
	prices, err := cc.api.PricesForProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

// ListBrands returns the brand directory.
func (cc *CatalogController) ListBrands(c *gin.Context) {
	brands, err := cc.api.ListBrands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
