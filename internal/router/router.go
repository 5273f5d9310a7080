package router

import (
	"github.com/gorilla/mux"

	"acgl-management-api/internal/config"
	"acgl-management-api/internal/handler"
	"acgl-management-api/internal/middleware"
)

// NewRouter wires the REST surface. Login and health are public; every
// dashboard route sits behind the session gate. Entity routes are generic:
// the {entity} variable is resolved against the schema registry inside the
// handler.
func NewRouter(eh *handler.EntityHandler, ah *handler.AuthHandler, lh *handler.LookupHandler, authMW *middleware.AuthMiddleware, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	securityMW := middleware.NewSecurityMiddleware(&cfg.Security)

	// Apply global middleware in order
	r.Use(securityMW.SecurityHeaders)
	r.Use(securityMW.CORS)
	r.Use(securityMW.RateLimit)
	r.Use(securityMW.RequestTimeout)

	api := r.PathPrefix("/api").Subrouter()

	// Public surface
	api.HandleFunc("/login", ah.LoginHandler).Methods("POST")
	api.HandleFunc("/logout", ah.LogoutHandler).Methods("POST")
	api.HandleFunc("/session", ah.SessionHandler).Methods("GET")
	api.HandleFunc("/health", eh.HealthHandler).Methods("GET")

	// Session-gated dashboard surface
	protected := api.NewRoute().Subrouter()
	protected.Use(authMW.RequireSession)

	protected.HandleFunc("/dashboard/stats", eh.StatsHandler).Methods("GET")
	protected.HandleFunc("/plants", lh.PlantsHandler).Methods("GET")
	protected.HandleFunc("/departments", lh.DepartmentsHandler).Methods("GET")

	// Generic entity CRUD; search goes first so it wins over {id}
	protected.HandleFunc("/{entity}/search/{term}", eh.SearchHandler).Methods("GET")
	protected.HandleFunc("/{entity}", eh.ListHandler).Methods("GET")
	protected.HandleFunc("/{entity}", eh.CreateHandler).Methods("POST")
	protected.HandleFunc("/{entity}/{id:[0-9]+}", eh.GetHandler).Methods("GET")
	protected.HandleFunc("/{entity}/{id:[0-9]+}", eh.UpdateHandler).Methods("PUT")
	protected.HandleFunc("/{entity}/{id:[0-9]+}", eh.DeleteHandler).Methods("DELETE")

	return r
}
