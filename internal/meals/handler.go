package meals

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dailydiet/backend/internal/middleware"
	"github.com/dailydiet/backend/internal/models"
)

// maxPhotoBytes caps meal photo uploads.
const maxPhotoBytes = 10 << 20

// MealStore defines the interface for meal persistence.
type MealStore interface {
	InsertMeal(ctx context.Context, m *models.Meal) error
	ListMealsByUser(ctx context.Context, userID, sessionID string) ([]models.Meal, error)
	GetMeal(ctx context.Context, mealID string) (*models.Meal, error)
	UpdateMeal(ctx context.Context, m *models.Meal) (int64, error)
	DeleteMeal(ctx context.Context, mealID, userID, sessionID string) error
	SetMealPhoto(ctx context.Context, mealID, key string) error
}

// PhotoStore defines the interface for photo object storage.
type PhotoStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Handler holds meal HTTP handlers.
type Handler struct {
	meals  MealStore
	photos PhotoStore
}

func NewHandler(meals MealStore, photos PhotoStore) *Handler {
	return &Handler{meals: meals, photos: photos}
}

// List returns the meals recorded for the user under the caller's session,
// in creation order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	list, err := h.meals.ListMealsByUser(r.Context(), userID, middleware.SessionID(r.Context()))
	if err != nil {
		slog.Error("list meals failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Meal{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"meals": list})
}

// Get returns a single meal after an explicit ownership check.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	mealID, ok := pathUUID(w, r, "mealId")
	if !ok {
		return
	}

	meal := h.authorize(w, r, mealID, userID)
	if meal == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meal": meal})
}

// Create validates the meal body and inserts a new row owned by the path
// user and the caller's session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	req, date, ok := decodeMealRequest(w, r)
	if !ok {
		return
	}

	meal := &models.Meal{
		ID:          uuid.New().String(),
		UserID:      userID,
		SessionID:   middleware.SessionID(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		FulfilDiet:  *req.FulfilDiet,
	}
	if err := h.meals.InsertMeal(r.Context(), meal); err != nil {
		slog.Error("insert meal failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"meal": meal})
}

// Update validates the same field set as Create and replaces the mutable
// fields of an existing, owned meal.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	mealID, ok := pathUUID(w, r, "mealId")
	if !ok {
		return
	}

	req, date, ok := decodeMealRequest(w, r)
	if !ok {
		return
	}

	meal := h.authorize(w, r, mealID, userID)
	if meal == nil {
		return
	}

	meal.Name = req.Name
	meal.Description = req.Description
	meal.Date = date
	meal.FulfilDiet = *req.FulfilDiet

	rows, err := h.meals.UpdateMeal(r.Context(), meal)
	if err != nil {
		slog.Error("update meal failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		// Row vanished between the ownership check and the update.
		http.Error(w, `{"error":"meal not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"meal": meal})
}

// Delete removes the meal matching the full (meal, user, session) triple.
// It is idempotent: deleting an unknown meal still answers 204.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	mealID, ok := pathUUID(w, r, "mealId")
	if !ok {
		return
	}

	if err := h.meals.DeleteMeal(r.Context(), mealID, userID, middleware.SessionID(r.Context())); err != nil {
		slog.Error("delete meal failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats aggregates the user's meals for the caller's session.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}

	list, err := h.meals.ListMealsByUser(r.Context(), userID, middleware.SessionID(r.Context()))
	if err != nil {
		slog.Error("stats query failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, computeStats(list))
}

// UploadPhoto stores a photo for an owned meal and records its object key.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	mealID, ok := pathUUID(w, r, "mealId")
	if !ok {
		return
	}

	meal := h.authorize(w, r, mealID, userID)
	if meal == nil {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPhotoBytes))
	if err != nil {
		http.Error(w, `{"error":"photo too large or unreadable"}`, http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, `{"error":"photo body is required"}`, http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := userID + "/" + mealID
	if err := h.photos.Upload(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		slog.Error("photo upload failed", "error", err)
		http.Error(w, `{"error":"photo upload failed"}`, http.StatusInternalServerError)
		return
	}
	if err := h.meals.SetMealPhoto(r.Context(), mealID, key); err != nil {
		slog.Error("set photo key failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"photoKey": key})
}

// DownloadPhoto streams a previously uploaded meal photo.
func (h *Handler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId")
	if !ok {
		return
	}
	mealID, ok := pathUUID(w, r, "mealId")
	if !ok {
		return
	}

	meal := h.authorize(w, r, mealID, userID)
	if meal == nil {
		return
	}
	if meal.PhotoKey == "" {
		http.Error(w, `{"error":"photo not available"}`, http.StatusNotFound)
		return
	}

	data, contentType, err := h.photos.Download(r.Context(), meal.PhotoKey)
	if err != nil {
		slog.Error("photo download failed", "error", err)
		http.Error(w, `{"error":"download failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// authorize loads the meal and checks it belongs to the path user and the
// caller's session, distinguishing absence (404) from a meal owned by
// somebody else (403). It writes the error response itself and returns
// nil when the request must not proceed.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, mealID, userID string) *models.Meal {
	meal, err := h.meals.GetMeal(r.Context(), mealID)
	if err != nil {
		slog.Error("get meal failed", "error", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return nil
	}
	if meal == nil {
		http.Error(w, `{"error":"meal not found"}`, http.StatusNotFound)
		return nil
	}
	if meal.UserID != userID || meal.SessionID != middleware.SessionID(r.Context()) {
		http.Error(w, `{"error":"meal belongs to another session"}`, http.StatusForbidden)
		return nil
	}
	return meal
}

// decodeMealRequest parses and validates a create/update body. It writes
// the error response itself when validation fails.
func decodeMealRequest(w http.ResponseWriter, r *http.Request) (models.MealRequest, time.Time, bool) {
	var req models.MealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return req, time.Time{}, false
	}
	if req.Name == "" || req.Description == "" {
		http.Error(w, `{"error":"name and description are required"}`, http.StatusBadRequest)
		return req, time.Time{}, false
	}
	if req.FulfilDiet == nil {
		http.Error(w, `{"error":"fulfilDiet is required"}`, http.StatusBadRequest)
		return req, time.Time{}, false
	}

	date, err := parseMealDate(req.Date, time.Now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return req, time.Time{}, false
	}
	return req, date, true
}

// pathUUID extracts and validates a UUID path parameter, answering 400 on
// a malformed value.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if _, err := uuid.Parse(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": name + " must be a valid uuid"})
		return "", false
	}
	return v, true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
