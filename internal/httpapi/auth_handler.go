package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/restopos/restopos/internal/auth"
	"github.com/restopos/restopos/internal/domain"
	"github.com/restopos/restopos/internal/repository"
	"github.com/restopos/restopos/internal/validation"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type AuthHandler struct {
	users    UserStore
	issuer   *auth.TokenIssuer
	tokenTTL time.Duration
}

func NewAuthHandler(users UserStore, issuer *auth.TokenIssuer, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, tokenTTL: tokenTTL}
}

type loginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponseDTO struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
	RedirectTo  string       `json:"redirect_to"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.Login(validation.LoginInput(req)); !result.Valid() {
		respondValidation(w, result)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondData(w, http.StatusOK, loginResponseDTO{
		AccessToken: token,
		User:        user,
		RedirectTo:  auth.RoleHome(user.Role),
	})
}

type changePasswordRequestDTO struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.ResetPassword(req.NewPassword); !result.Valid() {
		respondValidation(w, result)
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if err := h.users.UpdateUserPassword(r.Context(), userID, string(hash)); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	respondData(w, http.StatusOK, map[string]string{"status": "password changed"})
}
