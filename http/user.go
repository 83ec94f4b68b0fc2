package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"happythoughts/domain"
	"happythoughts/errs"
)

// registerUserRoutes is a helper for registering all User routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Create a new account.
	r.HandleFunc("/users/signup", s.handleSignup).Methods("POST")

	// Exchange credentials for the account's static access token.
	r.HandleFunc("/users/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/sessions", s.handleLogin).Methods("POST")
}

// handleSignup handles the route "POST /users/signup".
// It creates a new user and returns the account's static access token.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := domain.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	}
	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		AccessToken string `json:"accessToken"`
	}{
		ID:          user.ID,
		Name:        user.Name,
		AccessToken: user.AccessToken,
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogin handles the routes "POST /users/login" and "POST /sessions".
// It checks the submitted credentials and returns the account's static
// access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user, err := s.us.Authenticate(body.Email, body.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := struct {
		UserID      int    `json:"userId"`
		Name        string `json:"name"`
		AccessToken string `json:"accessToken"`
	}{
		UserID:      user.ID,
		Name:        user.Name,
		AccessToken: user.AccessToken,
	}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}
