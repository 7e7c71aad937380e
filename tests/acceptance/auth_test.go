package acceptance

import (
	"context"
	"net/http"
	"sync"

	"github.com/prperemyshlev/storefront/internal/domain"
	"github.com/prperemyshlev/storefront/internal/dto"
)

func (s *Suite) register(email string) dto.AuthData {
	var resp dto.AuthResponse
	r := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		UserName: "Shopper",
		Email:    email,
		Password: "Password123",
	}, "", &resp)
	s.Require().Equal(http.StatusCreated, r.StatusCode)
	return resp.Data
}

func (s *Suite) TestRegister_Success() {
	var resp dto.AuthResponse
	r := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		UserName:  "Jane Smith",
		Email:     "Jane@Example.com",
		Password:  "Password123",
		Telephone: "+1234567892",
	}, "", &resp)

	s.Equal(http.StatusCreated, r.StatusCode)
	s.True(resp.Success)
	s.Equal("User registered successfully", resp.Message)
	s.NotEmpty(resp.Data.AccessToken)
	s.NotEmpty(resp.Data.RefreshToken)
	s.Equal(900, resp.Data.ExpiresIn)
	s.Equal("jane@example.com", resp.Data.User.Email)
	s.Equal(domain.RoleUser, resp.Data.User.Role)
	s.Equal(domain.StatusActive, resp.Data.User.Status)

	stored, err := s.Repos.User.GetByID(context.Background(), resp.Data.User.ID)
	s.Require().NoError(err)
	s.NotEqual("Password123", stored.PasswordHash)
	s.Require().NotNil(stored.RefreshTokenHash)
	s.NotEqual(resp.Data.RefreshToken, *stored.RefreshTokenHash)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("duplicate@example.com")

	var errResp dto.ErrorResponse
	r := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		UserName: "Other",
		Email:    "DUPLICATE@example.com",
		Password: "Password123",
	}, "", &errResp)

	s.Equal(http.StatusConflict, r.StatusCode)
	s.False(errResp.Success)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_Invalid() {
	cases := []dto.RegisterRequest{
		{UserName: "x", Email: "invalid-email", Password: "Password123"},
		{UserName: "x", Email: "short@example.com", Password: "short"},
		{Email: "noname@example.com", Password: "Password123"},
	}
	for _, req := range cases {
		r := s.postJSON("/api/v1/auth/register", req, "", nil)
		s.Equal(http.StatusBadRequest, r.StatusCode, req.Email)
	}
}

func (s *Suite) TestLogin_Success() {
	registered := s.register("login@example.com")

	var resp dto.AuthResponse
	r := s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: "login@example.com", Password: "Password123"}, "", &resp)

	s.Equal(http.StatusOK, r.StatusCode)
	s.Equal("Login successful", resp.Message)
	s.Equal(registered.User.ID, resp.Data.User.ID)

	// login rotated the refresh token issued at registration
	r = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: registered.RefreshToken}, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)
}

func (s *Suite) TestLogin_InvalidCredentials() {
	s.register("wrongpass@example.com")

	var unknown, wrong dto.ErrorResponse
	r := s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: "nonexistent@example.com", Password: "Password123"}, "", &unknown)
	s.Equal(http.StatusUnauthorized, r.StatusCode)

	r = s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: "wrongpass@example.com", Password: "WrongPassword"}, "", &wrong)
	s.Equal(http.StatusUnauthorized, r.StatusCode)

	s.Equal(unknown, wrong)
}

func (s *Suite) TestLogin_Banned() {
	data := s.register("banned@example.com")
	s.Require().NoError(s.Repos.User.UpdateStatus(context.Background(), data.User.ID, domain.StatusBanned))

	r := s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: "banned@example.com", Password: "Password123"}, "", nil)
	s.Equal(http.StatusForbidden, r.StatusCode)

	r = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: data.RefreshToken}, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)
}

func (s *Suite) TestGetMe() {
	data := s.register("getme@example.com")

	var me dto.UserResponse
	r := s.call(http.MethodGet, "/api/v1/auth/me", nil, data.AccessToken, &me)
	s.Equal(http.StatusOK, r.StatusCode)
	s.Equal(data.User.ID, me.Data.ID)

	r = s.call(http.MethodGet, "/api/v1/auth/me", nil, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)

	r = s.call(http.MethodGet, "/api/v1/auth/me", nil, "invalid-token", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)

	r = s.call(http.MethodGet, "/api/v1/auth/me", nil, data.RefreshToken, nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)
}

func (s *Suite) TestRefresh_IsSingleUse() {
	data := s.register("refresh@example.com")

	var rotated dto.TokenResponse
	r := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: data.RefreshToken}, "", &rotated)
	s.Require().Equal(http.StatusOK, r.StatusCode)
	s.NotEmpty(rotated.Data.AccessToken)
	s.NotEqual(data.RefreshToken, rotated.Data.RefreshToken)

	r = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: data.RefreshToken}, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)

	r = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: rotated.Data.RefreshToken}, "", nil)
	s.Equal(http.StatusOK, r.StatusCode)
}

func (s *Suite) TestRefresh_ConcurrentUseSucceedsOnce() {
	data := s.register("race@example.com")

	const attempts = 5
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: data.RefreshToken}, "", nil)
			codes <- r.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	ok := 0
	for code := range codes {
		if code == http.StatusOK {
			ok++
		}
	}
	s.Equal(1, ok)
}

func (s *Suite) TestRefresh_Missing() {
	r := s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{}, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)
}

func (s *Suite) TestLogout() {
	data := s.register("logout@example.com")

	var resp dto.MessageResponse
	r := s.postJSON("/api/v1/auth/logout", nil, data.AccessToken, &resp)
	s.Equal(http.StatusOK, r.StatusCode)
	s.Equal("Logged out successfully", resp.Message)

	r = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: data.RefreshToken}, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)

	// access tokens stay valid until they expire
	r = s.call(http.MethodGet, "/api/v1/auth/me", nil, data.AccessToken, nil)
	s.Equal(http.StatusOK, r.StatusCode)

	r = s.postJSON("/api/v1/auth/logout", nil, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)
}

func (s *Suite) TestAdmin_StatusChangeRequiresStoredRole() {
	admin := s.register("admin@example.com")
	target := s.register("target@example.com")
	path := "/api/v1/admin/users/" + target.User.ID + "/status"

	r := s.call(http.MethodPatch, path, dto.UpdateStatusRequest{Status: "banned"}, admin.AccessToken, nil)
	s.Equal(http.StatusForbidden, r.StatusCode)

	s.Require().NoError(s.Repos.User.UpdateRole(context.Background(), admin.User.ID, domain.RoleAdmin))

	var resp dto.UserResponse
	r = s.call(http.MethodPatch, path, dto.UpdateStatusRequest{Status: "banned"}, admin.AccessToken, &resp)
	s.Equal(http.StatusOK, r.StatusCode)
	s.Equal(domain.StatusBanned, resp.Data.Status)

	r = s.postJSON("/api/v1/auth/refresh", dto.RefreshRequest{RefreshToken: target.RefreshToken}, "", nil)
	s.Equal(http.StatusUnauthorized, r.StatusCode)

	r = s.call(http.MethodPatch, "/api/v1/admin/users/00000000-0000-0000-0000-000000000000/role",
		dto.UpdateRoleRequest{Role: "admin"}, admin.AccessToken, nil)
	s.Equal(http.StatusNotFound, r.StatusCode)
}
