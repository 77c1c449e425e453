package users

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dailydiet/backend/internal/auth"
	"github.com/dailydiet/backend/internal/middleware"
	"github.com/dailydiet/backend/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, id, name, email, sessionID string) (*models.User, error)
	ListUsersBySession(ctx context.Context, sessionID string) ([]models.User, error)
	GetUser(ctx context.Context, userID, sessionID string) (*models.User, error)
}

// Sessions defines the interface for minting and refreshing session records.
type Sessions interface {
	Mint(ctx context.Context) (string, error)
	Touch(ctx context.Context, sid string) error
}

// Handler holds user HTTP handlers.
type Handler struct {
	users    UserStore
	sessions Sessions
}

func NewHandler(users UserStore, sessions Sessions) *Handler {
	return &Handler{users: users, sessions: sessions}
}

// Create registers a new user. When the caller has no session cookie yet,
// a fresh session id is minted and handed back as a 7-day cookie; with a
// cookie present the existing session is reused as-is.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}
	if !emailRegex.MatchString(req.Email) {
		http.Error(w, `{"error":"valid email address is required"}`, http.StatusBadRequest)
		return
	}

	var sid string
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil && cookie.Value != "" {
		sid = cookie.Value
		if err := h.sessions.Touch(r.Context(), sid); err != nil {
			slog.Warn("session touch failed", "error", err)
		}
	} else {
		var err error
		sid, err = h.sessions.Mint(r.Context())
		if err != nil {
			slog.Error("session mint failed", "error", err)
			http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(auth.SessionTTL / time.Second),
		})
	}

	if _, err := h.users.CreateUser(r.Context(), uuid.New().String(), req.Name, req.Email, sid); err != nil {
		slog.Error("create user failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// List returns every user registered under the caller's session.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())

	users, err := h.users.ListUsersBySession(r.Context(), sid)
	if err != nil {
		slog.Error("list users failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Get returns the single user matching both the path id and the caller's
// session. Absence is not an error: the user field is simply null.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(userID); err != nil {
		http.Error(w, `{"error":"userId must be a valid uuid"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID, middleware.SessionID(r.Context()))
	if err != nil {
		slog.Error("get user failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
