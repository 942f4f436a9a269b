package api

import (
	"errors"
	"net/http"
	"time"

	"gatepass/db"
	"gatepass/service/security"
	"gatepass/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	EventKey string    `json:"event_key"`
}

type LoginResponse struct {
	AccessToken           string    `json:"access_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshToken          string    `json:"refresh_token"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	Admin                 AdminInfo `json:"admin"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Issue an access token and a stored refresh token for an admin
func (server *Server) issueTokens(ctx *gin.Context, admin *db.Admin) (*LoginResponse, error) {
	accessToken, accessExpiresAt, err := server.jwtService.CreateToken(admin)
	if err != nil {
		return nil, err
	}

	refreshToken, hash, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshExpiresAt := time.Now().Add(server.config.RefreshTokenExpiration)
	err = server.queries.CreateRefreshToken(ctx, &db.RefreshToken{
		AdminID:   admin.ID,
		TokenHash: hash,
		ExpiresAt: refreshExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		Admin:                 AdminInfo{ID: admin.ID, Username: admin.Username, EventKey: admin.EventKey},
	}, nil
}

// Login godoc
// @Summary      Operator login
// @Description  Authenticates an operator and returns a short lived access token and a refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Operator credentials"
// @Success      200 {object} LoginResponse "Login successful"
// @Failure      400 {object} ErrorResponse "Invalid request body"
// @Failure      401 {object} ErrorResponse "Incorrect username or password"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/admin/login [post]
func (server *Server) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.LOGGER.Warn("POST /api/admin/login: failed to bind request body", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid request body"})
		return
	}

	admin, err := server.queries.GetAdminByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, db.ErrAdminNotFound) {
		util.LOGGER.Error("POST /api/admin/login: failed to get admin", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	// Same answer for unknown users and wrong passwords
	if admin == nil || !security.BcryptCompare(admin.PasswordHash, req.Password) {
		util.LOGGER.Warn("POST /api/admin/login: incorrect credentials", "username", req.Username)
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{"Incorrect username or password"})
		return
	}

	resp, err := server.issueTokens(ctx, admin)
	if err != nil {
		util.LOGGER.Error("POST /api/admin/login: failed to issue tokens", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Description  Exchanges a refresh token for a new token pair. The presented refresh token is revoked.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} LoginResponse "Token refresh success"
// @Failure      400 {object} ErrorResponse "Invalid request body"
// @Failure      401 {object} ErrorResponse "Invalid refresh token"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/admin/refresh [post]
func (server *Server) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.LOGGER.Warn("POST /api/admin/refresh: failed to bind request body", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid request body"})
		return
	}

	now := time.Now()
	token, err := server.queries.GetActiveRefreshToken(ctx, security.Hash(req.RefreshToken), now)
	if err == nil {
		// Losing this race means the token was just used by someone else
		err = server.queries.RevokeRefreshToken(ctx, token.ID, now)
	}
	if errors.Is(err, db.ErrRefreshTokenNotFound) {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{"Invalid refresh token"})
		return
	}
	if err != nil {
		util.LOGGER.Error("POST /api/admin/refresh: failed to rotate refresh token", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	admin, err := server.queries.GetAdminByID(ctx, token.AdminID)
	if errors.Is(err, db.ErrAdminNotFound) {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{"Invalid refresh token"})
		return
	}
	if err != nil {
		util.LOGGER.Error("POST /api/admin/refresh: failed to get admin", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	resp, err := server.issueTokens(ctx, admin)
	if err != nil {
		util.LOGGER.Error("POST /api/admin/refresh: failed to issue tokens", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Operator logout
// @Description  Revokes the provided refresh token. Access tokens stay valid until they expire.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token to revoke"
// @Success      200 {object} SuccessMessage "Logout success"
// @Failure      400 {object} ErrorResponse "Invalid request body"
// @Failure      401 {object} ErrorResponse "Invalid refresh token"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/admin/logout [post]
func (server *Server) Logout(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.LOGGER.Warn("POST /api/admin/logout: failed to bind request body", "error", err)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{"Invalid request body"})
		return
	}

	now := time.Now()
	token, err := server.queries.GetActiveRefreshToken(ctx, security.Hash(req.RefreshToken), now)
	if err == nil {
		err = server.queries.RevokeRefreshToken(ctx, token.ID, now)
	}
	if errors.Is(err, db.ErrRefreshTokenNotFound) {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{"Invalid refresh token"})
		return
	}
	if err != nil {
		util.LOGGER.Error("POST /api/admin/logout: failed to revoke refresh token", "error", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{"Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, SuccessMessage{"Logout success"})
}
