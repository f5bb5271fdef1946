package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Juli03-22/lookaly-fullstack/apperrors"
	"github.com/Juli03-22/lookaly-fullstack/models"
)

// APIClient is the typed consumer of the upstream Lookaly API. Every
// response is decoded and classified here, at the boundary; callers only
// ever see domain types or the apperrors taxonomy.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, token string, contentType string, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.client.Do(req)
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, query url.Values, token string, payload, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, query, token, contentType, body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// decodeJSON consumes the response, mapping non-2xx statuses onto the
// error taxonomy. out may be nil for responses without a useful body.
func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return classifyError(resp.StatusCode, body)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// classifyError maps an upstream error response to the taxonomy. The
// upstream wraps errors as {"detail": "..."} or, for validation, as
// {"detail": [{"loc": [...], "msg": "..."}]}.
func classifyError(status int, body []byte) error {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)

	detail := ""
	var items []struct {
		Loc []json.RawMessage `json:"loc"`
		Msg string            `json:"msg"`
	}
	if len(payload.Detail) > 0 {
		if payload.Detail[0] == '"' {
			_ = json.Unmarshal(payload.Detail, &detail)
		} else if payload.Detail[0] == '[' {
			_ = json.Unmarshal(payload.Detail, &items)
		}
	}

	switch status {
	case http.StatusUnauthorized:
		if detail == "Código 2FA incorrecto" {
			return apperrors.ErrInvalidSecondFactor
		}
		return apperrors.ErrInvalidCredentials
	case http.StatusPreconditionRequired:
		return apperrors.ErrSecondFactorRequired
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(items) > 0 {
			ve := &apperrors.ValidationError{}
			for _, it := range items {
				field := ""
				if n := len(it.Loc); n > 0 {
					_ = json.Unmarshal(it.Loc[n-1], &field)
				}
				ve.Fields = append(ve.Fields, apperrors.FieldError{Field: field, Message: it.Msg})
			}
			return ve
		}
		if detail != "" {
			return apperrors.NewValidationError(detail)
		}
		return apperrors.NewValidationError("solicitud inválida")
	default:
		return &apperrors.UpstreamError{Status: status, Body: string(body)}
	}
}

// ── Auth ─────────────────────────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The upstream expects
// OAuth2 form encoding (username/password) with the optional TOTP code as
// a query parameter.
func (c *APIClient) Login(ctx context.Context, email, password, totpCode string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	query := url.Values{}
	if totpCode != "" {
		query.Set("totp_code", totpCode)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", query, "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := decodeJSON(resp, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", &apperrors.UpstreamError{Status: http.StatusOK, Body: "empty access token"}
	}
	return tok.AccessToken, nil
}

type profileResponse struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	IsAdmin     bool        `json:"is_admin"`
	TOTPEnabled bool        `json:"totp_enabled"`
	Role        *string     `json:"role"`
}

func (p *profileResponse) toIdentity() *models.Identity {
	return &models.Identity{
		ID:          p.ID.String(),
		Name:        p.Name,
		Email:       p.Email,
		IsAdmin:     p.IsAdmin,
		TOTPEnabled: p.TOTPEnabled,
		Role:        p.Role,
	}
}

// Me fetches the identity profile for the given credential.
func (c *APIClient) Me(ctx context.Context, token string) (*models.Identity, error) {
	var profile profileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, token, nil, &profile); err != nil {
		return nil, err
	}
	return profile.toIdentity(), nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. Field-level rejections come back as a
// *apperrors.ValidationError.
func (c *APIClient) Register(ctx context.Context, name, email, password string) (*models.Identity, error) {
	var profile profileResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, "", registerRequest{Name: name, Email: email, Password: password}, &profile)
	if err != nil {
		return nil, err
	}
	return profile.toIdentity(), nil
}

// Logout notifies the upstream that the credential should be revoked.
func (c *APIClient) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, token, nil, nil)
}

// GoogleAuthURL fetches the Google OAuth authorization URL from the
// upstream. The upstream answers 503 when OAuth is not configured.
func (c *APIClient) GoogleAuthURL(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/google/url", nil, "", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// ── Two-factor ───────────────────────────────────────────────────────

// TwoFASetup is the upstream's enrollment payload: the shared secret plus
// a QR code image for authenticator apps, as a data URL.
type TwoFASetup struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

func (c *APIClient) SetupTwoFA(ctx context.Context, token string) (*TwoFASetup, error) {
	var setup TwoFASetup
	if err := c.doJSON(ctx, http.MethodPost, "/2fa/setup", nil, token, nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

type twoFACode struct {
	Code string `json:"code"`
}

func (c *APIClient) ConfirmTwoFA(ctx context.Context, token, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/2fa/confirm", nil, token, twoFACode{Code: code}, nil)
}

func (c *APIClient) DisableTwoFA(ctx context.Context, token, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/2fa/disable", nil, token, twoFACode{Code: code}, nil)
}

func (c *APIClient) TwoFAStatus(ctx context.Context, token string) (bool, error) {
	var status struct {
		TOTPEnabled bool `json:"totp_enabled"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/2fa/status", nil, token, nil, &status); err != nil {
		return false, err
	}
	return status.TOTPEnabled, nil
}

// ── Catalog ──────────────────────────────────────────────────────────

// ProductQuery mirrors the upstream list filters.
type ProductQuery struct {
	Page     int
	Size     int
	Category string
	Brand    string
	Search   string
	Sort     string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Brand != "" {
		v.Set("brand", q.Brand)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

func (c *APIClient) ListProducts(ctx context.Context, q ProductQuery) (*models.ProductList, error) {
	var list models.ProductList
	if err := c.doJSON(ctx, http.MethodGet, "/products", q.values(), "", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *APIClient) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// PricesForProduct returns the multi-retailer price list, cheapest first.
func (c *APIClient) PricesForProduct(ctx context.Context, productID string) ([]models.Price, error) {
	var prices []models.Price
	if err := c.doJSON(ctx, http.MethodGet, "/prices/product/"+url.PathEscape(productID), nil, "", nil, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

func (c *APIClient) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := c.doJSON(ctx, http.MethodGet, "/brands", nil, "", nil, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

// ── Catalog administration ───────────────────────────────────────────

func (c *APIClient) CreateProduct(ctx context.Context, token string, payload map[string]interface{}) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodPost, "/products", nil, token, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *APIClient) UpdateProduct(ctx context.Context, token, productID string, payload map[string]interface{}) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodPatch, "/products/"+url.PathEscape(productID), nil, token, payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *APIClient) DeleteProduct(ctx context.Context, token, productID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(productID), nil, token, nil, nil)
}

func (c *APIClient) CreateBrand(ctx context.Context, token, name string) (*models.Brand, error) {
	var brand models.Brand
	if err := c.doJSON(ctx, http.MethodPost, "/brands", nil, token, map[string]string{"name": name}, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

func (c *APIClient) DeleteBrand(ctx context.Context, token, brandID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/brands/"+url.PathEscape(brandID), nil, token, nil, nil)
}

func (c *APIClient) CreatePrice(ctx context.Context, token string, payload map[string]interface{}) (*models.Price, error) {
	var price models.Price
	if err := c.doJSON(ctx, http.MethodPost, "/prices", nil, token, payload, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

func (c *APIClient) UpdatePrice(ctx context.Context, token, priceID string, payload map[string]interface{}) (*models.Price, error) {
	var price models.Price
	if err := c.doJSON(ctx, http.MethodPatch, "/prices/"+url.PathEscape(priceID), nil, token, payload, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

func (c *APIClient) DeletePrice(ctx context.Context, token, priceID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/prices/"+url.PathEscape(priceID), nil, token, nil, nil)
}

// ── Users administration ─────────────────────────────────────────────

// AdminUser is the back-office view of an account.
type AdminUser struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsAdmin     bool      `json:"is_admin"`
	TOTPEnabled bool      `json:"totp_enabled"`
	Role        *string   `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *APIClient) ListUsers(ctx context.Context, token string) ([]AdminUser, error) {
	var users []AdminUser
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *APIClient) UpdateUser(ctx context.Context, token, userID string, payload map[string]interface{}) (*AdminUser, error) {
	var user AdminUser
	if err := c.doJSON(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID), nil, token, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ── Orders ───────────────────────────────────────────────────────────

func (c *APIClient) CreateOrder(ctx context.Context, token string, order models.OrderCreate) (*models.Order, error) {
	var created models.Order
	if err := c.doJSON(ctx, http.MethodPost, "/orders", nil, token, order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *APIClient) MyOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders", nil, token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *APIClient) GetOrder(ctx context.Context, token, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *APIClient) AdminListOrders(ctx context.Context, token string, page, size int, status string) (*models.OrderList, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}
	if status != "" {
		query.Set("status", status)
	}

	var list models.OrderList
	if err := c.doJSON(ctx, http.MethodGet, "/orders/admin/all", query, token, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *APIClient) AdminUpdateOrder(ctx context.Context, token, orderID string, payload map[string]interface{}) (*models.Order, error) {
	var order models.Order
	if err := c.doJSON(ctx, http.MethodPatch, "/orders/admin/"+url.PathEscape(orderID), nil, token, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
