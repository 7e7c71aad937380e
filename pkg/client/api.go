package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type User struct {
	ID       string `json:"id" yaml:"id"`
	UserName string `json:"user_name" yaml:"user_name"`
	Email    string `json:"email" yaml:"email"`
	Role     string `json:"role" yaml:"role"`
	Status   string `json:"status" yaml:"status"`
}

type Ratings struct {
	Average float64 `json:"average" yaml:"average"`
	Count   int     `json:"count" yaml:"count"`
}

type Product struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
	Category    string    `json:"category" yaml:"category"`
	Images      []string  `json:"images" yaml:"images"`
	Stock       int       `json:"stock" yaml:"stock"`
	Ratings     Ratings   `json:"ratings" yaml:"ratings"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

type Pagination struct {
	CurrentPage   int `json:"currentPage" yaml:"current_page"`
	TotalPages    int `json:"totalPages" yaml:"total_pages"`
	TotalProducts int `json:"totalProducts" yaml:"total_products"`
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Items      []Product  `json:"data" yaml:"items"`
	Pagination Pagination `json:"pagination" yaml:"pagination"`
}

// AuthResult is the result of register and login
type AuthResult struct {
	User         User   `json:"user" yaml:"user"`
	AccessToken  string `json:"accessToken" yaml:"-"`
	RefreshToken string `json:"refreshToken" yaml:"-"`
	ExpiresIn    int    `json:"expiresIn" yaml:"expires_in"`
}

type RegisterInput struct {
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Telephone string `json:"telephone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// ProductQuery is the listing filter. Zero values are omitted.
type ProductQuery struct {
	Page       int
	Limit      int
	Category   string
	Search     string
	PriceRange string
	SortBy     string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page != 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit != 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("category", q.Category)
	set("search", q.Search)
	set("priceRange", q.PriceRange)
	set("sortBy", q.SortBy)
	return v
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type authResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    AuthResult `json:"data"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Success bool `json:"success"`
	Data    struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int    `json:"expiresIn"`
	} `json:"data"`
}

type userResponse struct {
	Success bool `json:"success"`
	Data    User `json:"data"`
}

type productResponse struct {
	Success bool    `json:"success"`
	Data    Product `json:"data"`
}

// Register creates an account and starts a session for it
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", in)
}

// Login starts a session
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &resp); err != nil {
		return nil, err
	}
	if err := c.session.SetTokenPair(resp.Data.AccessToken, resp.Data.RefreshToken); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Refresh rotates the stored token pair
func (c *Client) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

// Logout ends the session on the server and forgets the local credentials.
// The local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", refreshable: true}, nil)
	if clearErr := c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// Me returns the logged-in user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp userResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", refreshable: true}, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	path := "/products"
	if v := q.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}

	var page ProductPage
	if err := c.do(ctx, request{method: http.MethodGet, path: path, refreshable: true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var resp productResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/" + url.PathEscape(id), refreshable: true}, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
