package acceptance

import (
	"context"
	"errors"

	"github.com/prperemyshlev/storefront/pkg/client"
)

func (s *Suite) newClient(redirects *int) *client.Client {
	return client.New(s.BaseURL+"/api/v1", client.WithLoginRedirect(func() { *redirects++ }))
}

func (s *Suite) TestClient_RecoversFromRejectedAccessToken() {
	ctx := context.Background()
	redirects := 0
	c := s.newClient(&redirects)

	_, err := c.Register(ctx, client.RegisterInput{UserName: "Client", Email: "client@example.com", Password: "Password123"})
	s.Require().NoError(err)
	refreshToken := c.Session().RefreshToken()

	s.Require().NoError(c.Session().SetTokenPair("not-a-valid-token", refreshToken))

	me, err := c.Me(ctx)
	s.Require().NoError(err)
	s.Equal("client@example.com", me.Email)
	s.NotEqual(refreshToken, c.Session().RefreshToken())
	s.Zero(redirects)
}

func (s *Suite) TestClient_RevokedSessionRedirectsToLogin() {
	ctx := context.Background()
	redirects := 0
	c := s.newClient(&redirects)

	_, err := c.Register(ctx, client.RegisterInput{UserName: "Client", Email: "revoked@example.com", Password: "Password123"})
	s.Require().NoError(err)
	stale := c.Session().RefreshToken()

	// a second device logs in and rotates the token out from under this one
	other := s.newClient(new(int))
	_, err = other.Login(ctx, "revoked@example.com", "Password123")
	s.Require().NoError(err)

	s.Require().NoError(c.Session().SetTokenPair("not-a-valid-token", stale))

	_, err = c.Me(ctx)
	s.True(errors.Is(err, client.ErrSessionExpired))
	s.Equal(1, redirects)
	s.Empty(c.Session().AccessToken())
	s.Empty(c.Session().RefreshToken())
}

func (s *Suite) TestClient_BrowseCatalog() {
	s.seedCatalog()
	c := s.newClient(new(int))

	page, err := c.ListProducts(context.Background(), client.ProductQuery{Category: "vitamins", SortBy: "price-asc"})
	s.Require().NoError(err)
	s.NotEmpty(page.Items)
	for _, p := range page.Items {
		s.Equal("vitamins", p.Category)
	}

	product, err := c.GetProduct(context.Background(), page.Items[0].ID)
	s.Require().NoError(err)
	s.Equal(page.Items[0].Name, product.Name)

	_, err = c.GetProduct(context.Background(), "missing")
	s.Equal(404, client.StatusCode(err))
}
