package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"happythoughts/auth"
	"happythoughts/domain"
	"happythoughts/errs"
)

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It resolves the acting identity before
// any route logic runs and hands things over to the crud services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ts     domain.ThoughtService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(us domain.UserService, ts domain.ThoughtService) *Server {
	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router: mux.NewRouter(),
		us:     us,
		ts:     ts,
	}

	// Register all routes.
	s.registerRootRoutes(s.router)
	s.registerThoughtRoutes(s.router)
	s.registerUserRoutes(s.router)

	// Set up middleware that needs to run on every request.
	s.router.Use(setContentTypeJSON, s.resolveUser)
	return s
}

// ServeHTTP makes the Server usable directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// registerRootRoutes is a helper for registering the service descriptor route.
func (s *Server) registerRootRoutes(r *mux.Router) {
	r.HandleFunc("/", s.handleRoot).Methods("GET")
}

// handleRoot handles the route "GET /". It returns a short welcome message
// together with a listing of every registered endpoint.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	type endpoint struct {
		Methods []string `json:"methods"`
		Path    string   `json:"path"`
	}
	var endpoints []endpoint
	s.router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		endpoints = append(endpoints, endpoint{Methods: methods, Path: path})
		return nil
	})

	response := map[string]interface{}{
		"message":   "Welcome to the Happy Thoughts API",
		"endpoints": endpoints,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// The resolveUser middleware resolves the acting identity for every request.
// The raw Authorization header value (no "Bearer " prefix) is matched against
// the stored access tokens. A missing header, an unknown token, and a store
// failure all leave the request anonymous; optional auth must never block a
// request.
func (s *Server) resolveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByAccessToken(token)
		if err != nil {
			if errs.ErrorCode(err) != errs.ENOTFOUND {
				errs.LogError(r, err)
			}
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests that did not resolve to an authenticated identity.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}
