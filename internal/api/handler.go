package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/dashboard"
	"github.com/stayhost/reviews-dashboard/internal/models"
	"github.com/stayhost/reviews-dashboard/internal/reviews"
)

// maxBodyBytes caps request bodies; selection payloads are tiny
const maxBodyBytes = 64 << 10

// Handler serves the reviews HTTP API
type Handler struct {
	service *dashboard.Service
}

// NewHandler creates a handler backed by service
func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

// Router builds the mux router with every route and middleware registered
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(recoveryMiddleware, loggingMiddleware)

	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	router.HandleFunc("/metrics", h.metrics).Methods(http.MethodGet)

	reviewsRouter := router.PathPrefix("/api/reviews").Subrouter()
	reviewsRouter.HandleFunc("/hostaway", h.listReviews).Methods(http.MethodGet)
	reviewsRouter.HandleFunc("/public", h.publicReviews).Methods(http.MethodGet)
	reviewsRouter.HandleFunc("/approved-map", h.approvedMap).Methods(http.MethodGet)
	reviewsRouter.HandleFunc("/selection", h.selection).Methods(http.MethodPost)
	reviewsRouter.HandleFunc("/google", h.googleReviews).Methods(http.MethodGet)

	for _, r := range []*mux.Router{router, reviewsRouter} {
		r.NotFoundHandler = http.HandlerFunc(notFound)
		r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}

	return router
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "healthy",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"approvalStore": h.service.ApprovalStoreName(),
	})
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.service.GetMetrics()))
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	q, err := reviews.ParseQuery(r.URL.Query())
	if err != nil {
		if errors.Is(err, reviews.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}

	writeJSON(w, http.StatusOK, h.service.ListReviews(r.Context(), q))
}

func (h *Handler) publicReviews(w http.ResponseWriter, r *http.Request) {
	q := publicQuery{ListingKey: strings.TrimSpace(r.URL.Query().Get("listingKey"))}
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "listingKey required", nil)
		return
	}

	resp, err := h.service.PublicReviews(r.Context(), q.ListingKey)
	if err != nil {
		logrus.Errorf("Public reviews for %s failed: %v", q.ListingKey, err)
		writeError(w, http.StatusInternalServerError, "approval store unavailable", nil)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) approvedMap(w http.ResponseWriter, r *http.Request) {
	keys := dashboard.ParseListingKeys(r.URL.Query().Get("listingKeys"))

	approved, err := h.service.ApprovedMap(r.Context(), keys)
	if err != nil {
		logrus.Errorf("Approved map lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "approval store unavailable", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"map": approved})
}

func (h *Handler) selection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body", map[string]string{"body": "must be a JSON object"})
		return
	}

	if err := req.Validate(); err != nil {
		var details interface{} = err.Error()
		if verrs, ok := err.(validation.Errors); ok {
			details = verrs
		}
		writeError(w, http.StatusBadRequest, "Invalid body", details)
		return
	}

	if err := h.service.SetApproval(r.Context(), req.ListingKey, req.ReviewID, *req.Approved); err != nil {
		logrus.Errorf("Selection update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "approval store unavailable", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type googleResponse struct {
	Configured bool            `json:"configured"`
	Items      []models.Review `json:"items"`
}

type googleDisabledResponse struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}

func (h *Handler) googleReviews(w http.ResponseWriter, r *http.Request) {
	if !h.service.GoogleConfigured() {
		writeJSON(w, http.StatusOK, googleDisabledResponse{Configured: false, Message: "GOOGLE_PLACES_API_KEY not set"})
		return
	}

	q := googleQuery{PlaceID: strings.TrimSpace(r.URL.Query().Get("placeId"))}
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "placeId required", nil)
		return
	}

	items, err := h.service.GoogleReviews(r.Context(), q.PlaceID, r.URL.Query().Get("listingName"))
	if err != nil {
		logrus.Errorf("Google reviews for %s failed: %v", q.PlaceID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch Google reviews", nil)
		return
	}
	writeJSON(w, http.StatusOK, googleResponse{Configured: true, Items: items})
}
