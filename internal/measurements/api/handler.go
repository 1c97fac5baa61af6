package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/bodymeasures/internal/auth"
	"github.com/2beens/bodymeasures/internal/measurements"
	"github.com/2beens/bodymeasures/internal/middleware"
	"github.com/2beens/bodymeasures/internal/telemetry/metrics"
	"github.com/2beens/bodymeasures/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=api

const referenceCacheSize = 4 * 1024 * 1024

type sessionDeleter interface {
	Delete(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	store    measurements.DocumentStore
	sessions sessionDeleter
	metrics  *metrics.Manager
	refCache *freecache.Cache
	now      func() time.Time
}

func NewHandler(
	store measurements.DocumentStore,
	sessions sessionDeleter,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		metrics:  metricsManager,
		refCache: freecache.NewCache(referenceCacheSize),
		now:      time.Now,
	}
}

func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	writeRateLimitPerMin int,
) {
	r.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	r.HandleFunc("/reference", handler.handleReference).Methods("GET", "OPTIONS").Name("reference")
	r.HandleFunc("/a/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")

	patientRouter := r.PathPrefix("/measurements").Subrouter()
	patientRouter.HandleFunc("", handler.handlePatientGet).Methods("GET", "OPTIONS").Name("patient-measurements")
	patientRouter.HandleFunc("", handler.handlePatientSave).Methods("POST", "OPTIONS").Name("patient-save")
	patientRouter.HandleFunc("/photos", handler.handlePhotos).Methods("GET", "OPTIONS").Name("patient-photos")
	patientRouter.Use(middleware.RequireRole(auth.RolePatient))
	patientRouter.Use(middleware.RateLimit(rateLimiter, handler.metrics, "patient", writeRateLimitPerMin))

	clinicianRouter := r.PathPrefix("/patients/{id}").Subrouter()
	clinicianRouter.HandleFunc("/measurements", handler.handleClinicianGet).Methods("GET", "OPTIONS").Name("clinician-measurements")
	clinicianRouter.HandleFunc("/measurements", handler.handleClinicianUpdate).Methods("PUT", "OPTIONS").Name("clinician-update")
	clinicianRouter.HandleFunc("/measurements", handler.handleClinicianDelete).Methods("DELETE", "OPTIONS").Name("clinician-delete")
	clinicianRouter.Use(middleware.RequireRole(auth.RoleClinician))
	clinicianRouter.Use(middleware.RateLimit(rateLimiter, handler.metrics, "clinician", writeRateLimitPerMin))
}

func (handler *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "ok")
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := middleware.TokenFromRequest(r)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	deleted, err := handler.sessions.Delete(r.Context(), authToken)
	if err != nil {
		log.Errorf("logout, delete session: %s", err)
		http.Error(w, "no can do", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if session, ok := auth.SessionFromContext(r.Context()); ok {
		log.Printf("logout for user [%s] success", session.UserID)
	}
	pkg.WriteTextResponseOK(w, "logged-out")
}

func writeJSON(w http.ResponseWriter, v any, statusCode int) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, statusCode)
}

// mustSession answers 401 when no session was attached to the request.
func mustSession(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
	}
	return session, ok
}
