package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

// AuthHandler bundles dependencies for the /security endpoints:
// login, registration, token refresh and the admin user back-office.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type userPart struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	IsActive bool       `json:"isActive"`
}
type authResp struct {
	User    userPart `json:"user"`
	Token   string   `json:"token"`
	Refresh string   `json:"refresh_token,omitempty"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Role: u.Role, IsActive: u.IsActive}
}

func (h *AuthHandler) reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// issueTokens signs an access token and stores a fresh refresh token
// for the user.
func (h *AuthHandler) issueTokens(ctx context.Context, u model.User) (string, string, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return "", "", err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDay)
	if err != nil {
		return "", "", err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return "", "", err
	}
	return access.Token, refresh.Raw, nil
}

// Login verifies credentials and returns the user plus a token pair.
// A wrong username or password is a 404 (the original site's
// contract); a deactivated account is a 403.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found or incorrect credentials"})
		}
		return storeFault(c, "login: query user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found or incorrect credentials"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is deactivated"})
	}

	token, refresh, err := h.issueTokens(ctx, u)
	if err != nil {
		return storeFault(c, "login: issue tokens", err)
	}
	return c.JSON(http.StatusOK, authResp{User: toUserPart(u), Token: token, Refresh: refresh})
}

// Register creates an ordinary user account.  The role is always
// RoleUser here; admins are created through the back-office.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Password, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
		}
		return storeFault(c, "register: create user", err)
	}

	u := model.User{ID: uid, Username: req.Username, Role: model.RoleUser, IsActive: true}
	token, refresh, err := h.issueTokens(ctx, u)
	if err != nil {
		return storeFault(c, "register: issue tokens", err)
	}
	return c.JSON(http.StatusCreated, authResp{User: toUserPart(u), Token: token, Refresh: refresh})
}

// Refresh exchanges a valid refresh token for a new access token.
// The refresh token is rotated: the old one is revoked.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return storeFault(c, "refresh: load user", err)
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is deactivated"})
	}

	token, refresh, err := h.issueTokens(ctx, u)
	if err != nil {
		return storeFault(c, "refresh: issue tokens", err)
	}
	return c.JSON(http.StatusOK, authResp{User: toUserPart(u), Token: token, Refresh: refresh})
}

// ----- admin user back-office -----

type adminUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// ListUsers handles GET /security/user.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := h.reqCtx(c)
	defer cancel()
	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return storeFault(c, "users: list", err)
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, out)
}

// GetUser handles GET /security/user/:id.
func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return storeFault(c, "users: get", err)
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// CreateUser handles POST /security/user: the admin path that may
// assign either role.
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	role := model.Role(req.Role)
	if req.Username == "" || req.Password == "" || !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, password and valid role required"})
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()
	uid, err := h.Users.Create(ctx, req.Username, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
		}
		return storeFault(c, "users: create", err)
	}
	u := model.User{ID: uid, Username: req.Username, Role: role, IsActive: true}
	return c.JSON(http.StatusCreated, toUserPart(u))
}

// UpdateUser handles PUT /security/user/:id: password, role and
// active flag rewrite.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := model.Role(req.Role)
	if req.Password == "" || !role.Valid() || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password, role and isActive required"})
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return storeFault(c, "users: hash password", err)
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()
	if err := h.Users.Update(ctx, id, hash, role, *req.IsActive); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return storeFault(c, "users: update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated"})
}

// DeleteUser handles DELETE /security/user/:id (soft delete).
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()
	if err := h.Users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return storeFault(c, "users: delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}

// CleanupUsers handles DELETE /security/user/cleanup: hard-deletes
// deactivated accounts together with their tickets.
func (h *AuthHandler) CleanupUsers(c echo.Context) error {
	ctx, cancel := h.reqCtx(c)
	defer cancel()
	n, err := h.Users.Cleanup(ctx)
	if err != nil {
		return storeFault(c, "users: cleanup", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
