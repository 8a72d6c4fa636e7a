package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// AuthHandler handles registration, login and the refresh token lifecycle.
type AuthHandler struct {
	userStore         store.UserStore
	refreshTokenStore store.RefreshTokenStore
	jwtService        auth.JWTService
	passwordVerifier  auth.PasswordVerifier
	db                *sql.DB
	logger            *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	refreshTokenStore store.RefreshTokenStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userStore:         userStore,
		refreshTokenStore: refreshTokenStore,
		jwtService:        jwtService,
		passwordVerifier:  passwordVerifier,
		db:                db,
		logger:            logger.With("component", "auth_handler"),
	}
}

// Register handles POST /auth/register. It creates the account and signs the
// new user in, returning the user together with a token pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		if details := ValidationDetails(err); details != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
				shared.WithDetails(details))
			return
		}
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.PhoneNumber = req.PhoneNumber
	user.IsSeller = req.IsSeller

	if err := h.userStore.Create(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	tokens, err := h.issueTokens(r.Context(), h.refreshTokenStore, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to generate tokens", err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	shared.RespondWithData(w, r, http.StatusCreated, AuthResponse{
		User:   NewUserResponse(user),
		Tokens: tokens,
	})
}

// Login handles POST /auth/login. Authentication is by username; unknown
// usernames and wrong passwords produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails(ValidationDetails(err)))
		return
	}

	user, err := h.userStore.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithErrorAndLog(w, r,
				http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Authentication failed", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusUnauthorized, "Invalid credentials", err,
			shared.WithElevatedLogLevel())
		return
	}

	tokens, err := h.issueTokens(r.Context(), h.refreshTokenStore, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to generate tokens", err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	shared.RespondWithData(w, r, http.StatusOK, AuthResponse{
		User:   NewUserResponse(user),
		Tokens: tokens,
	})
}

// Refresh handles POST /auth/refresh. The presented refresh token is rotated:
// its JTI is revoked and a new pair is issued. A token that was already
// revoked is treated as a possible replay and rejected.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.validateRefreshRequest(w, r)
	if !ok {
		return
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusUnauthorized, "Invalid token", err)
		return
	}

	record, err := h.refreshTokenStore.GetByJTI(r.Context(), jti)
	if err != nil {
		if errors.Is(err, store.ErrRefreshTokenNotFound) {
			shared.RespondWithErrorAndLog(w, r,
				http.StatusUnauthorized, "Invalid token", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to refresh tokens", err)
		return
	}

	if record.Revoked() {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusUnauthorized, "Token revoked", auth.ErrRevokedRefreshToken,
			shared.WithElevatedLogLevel())
		return
	}

	// Revoking the old token and saving its replacement commit together;
	// a failure part-way leaves the presented token usable for another
	// attempt instead of stranding the client with no valid pair.
	var tokens TokensResponse
	txErr := store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		tokenStore := h.refreshTokenStore.WithTx(tx)
		if err := tokenStore.Revoke(ctx, jti); err != nil {
			return err
		}

		var err error
		tokens, err = h.issueTokens(ctx, tokenStore, claims.UserID)
		return err
	})
	if txErr != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to refresh tokens", txErr)
		return
	}

	h.logger.Debug("refresh token rotated", "user_id", claims.UserID)

	shared.RespondWithData(w, r, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. It revokes the presented refresh token;
// the access token simply expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.validateRefreshRequest(w, r)
	if !ok {
		return
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusUnauthorized, "Invalid token", err)
		return
	}

	if err := h.refreshTokenStore.Revoke(r.Context(), jti); err != nil {
		if errors.Is(err, store.ErrRefreshTokenNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	h.logger.Info("user logged out", "user_id", claims.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// validateRefreshRequest decodes the request body and validates the refresh
// token in it, writing the error response itself when either step fails.
func (h *AuthHandler) validateRefreshRequest(
	w http.ResponseWriter,
	r *http.Request,
) (*auth.Claims, bool) {
	var req RefreshRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return nil, false
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails(ValidationDetails(err)))
		return nil, false
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return nil, false
	}

	return claims, true
}

// issueTokens generates an access and refresh token pair for the user and
// records the refresh token's JTI through the given store so it can later be
// revoked.
func (h *AuthHandler) issueTokens(
	ctx context.Context,
	tokenStore store.RefreshTokenStore,
	userID uuid.UUID,
) (TokensResponse, error) {
	access, err := h.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return TokensResponse{}, err
	}

	refresh, claims, err := h.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return TokensResponse{}, err
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return TokensResponse{}, err
	}

	err = tokenStore.Save(ctx, &store.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt,
		CreatedAt: claims.IssuedAt,
	})
	if err != nil {
		return TokensResponse{}, err
	}

	return TokensResponse{Access: access, Refresh: refresh}, nil
}
