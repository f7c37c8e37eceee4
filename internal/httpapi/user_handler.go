package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/restopos/restopos/internal/domain"
	"github.com/restopos/restopos/internal/repository"
	"github.com/restopos/restopos/internal/validation"
)

type UserAdminStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	ListUsers(ctx context.Context, shopID uuid.UUID) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, name, email string, role domain.Role) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler is the admin's staff management surface. Only ADMIN and STAFF
// roles can be assigned here; super admins are provisioned out of band.
type UserHandler struct {
	users UserAdminStore
}

func NewUserHandler(users UserAdminStore) *UserHandler {
	return &UserHandler{users: users}
}

type userRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := h.users.ListUsers(r.Context(), shopID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	respondData(w, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDFromClaims(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req userRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.NewUser(validation.UserInput(req)); !result.Valid() {
		respondValidation(w, result)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &domain.User{
		ID:           uuid.New(),
		ShopID:       shopID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.Role(req.Role),
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "Email already in use")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	respondData(w, http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req userRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if result := validation.EditUser(validation.UserInput(req)); !result.Valid() {
		respondValidation(w, result)
		return
	}

	if err := h.users.UpdateUser(r.Context(), id, req.Name, req.Email, domain.Role(req.Role)); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, repository.ErrDuplicateEmail):
			respondError(w, http.StatusConflict, "Email already in use")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "deleted"})
}
