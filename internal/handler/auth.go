package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookable/reservation-api/internal/apperror"
	"github.com/bookable/reservation-api/internal/config"
	"github.com/bookable/reservation-api/internal/model"
	"github.com/bookable/reservation-api/internal/repository"
	"github.com/bookable/reservation-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates a customer account and returns tokens immediately.
// Self-registration is always CUSTOMER; staff and admin roles are
// assigned by an administrator through the users endpoint.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	missing := make([]string, 0, 8)
	if req.Email == "" {
		missing = append(missing, "email", "email is required")
	}
	if req.Password == "" {
		missing = append(missing, "password", "password is required")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		missing = append(missing, "first_name", "first_name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		missing = append(missing, "last_name", "last_name is required")
	}
	if len(missing) > 0 {
		return apperror.NewValidation("Validation failed", missing...)
	}

	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName),
		strings.TrimSpace(req.Phone), model.RoleCustomer, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
		return err
	}

	resp, err := h.issueTokens(c, uid, req.Email, req.FirstName, req.LastName, model.RoleCustomer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return apperror.NewValidation("Validation failed",
			"email", "email and password are required")
	}

	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewAuth("Invalid credentials")
		}
		return err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apperror.NewAuth("Invalid credentials")
	}

	resp, err := h.issueTokens(c, u.ID, u.Email, u.FirstName, u.LastName, u.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// presented token out.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return apperror.NewValidation("Validation failed",
			"refresh_token", "refresh_token is required")
	}

	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewAuth("Invalid refresh token")
		}
		return err
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return err
	}
	resp, err := h.issueTokens(c, u.ID, u.Email, u.FirstName, u.LastName, u.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess issues a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return apperror.NewValidation("Validation failed",
			"refresh_token", "refresh_token is required")
	}

	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	uid, err := h.Tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(req.RefreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewAuth("Invalid refresh token")
		}
		return err
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the presented refresh token.  It succeeds with 204
// whether or not the token was still active.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return apperror.NewValidation("Validation failed",
			"refresh_token", "refresh_token is required")
	}

	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	who, err := currentIdentity(c)
	if err != nil {
		return err
	}
	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, who.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("User")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": userJSON(u)})
}

// issueTokens builds the access/refresh pair and stores the refresh hash.
func (h *AuthHandler) issueTokens(c echo.Context, uid uint64, email, firstName, lastName, role string) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    userPart{ID: uid, Email: email, FirstName: firstName, LastName: lastName, Role: role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}
