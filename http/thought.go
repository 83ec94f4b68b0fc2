package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"happythoughts/auth"
	"happythoughts/domain"
	"happythoughts/errs"
	"happythoughts/feed"
)

// registerThoughtRoutes is a helper for registering all Thought routes.
func (s *Server) registerThoughtRoutes(r *mux.Router) {
	// The paginated feed.
	r.HandleFunc("/thoughts", s.handleListThoughts).Methods("GET")

	// Post a new thought, anonymously or as the resolved user.
	r.HandleFunc("/thoughts", s.handleCreateThought).Methods("POST")

	// Thoughts liked by the authed user.
	r.HandleFunc("/thoughts/liked", s.requireAuth(s.handleLikedThoughts)).Methods("GET")

	// A single thought.
	r.HandleFunc("/thoughts/id/{id}", s.handleGetThought).Methods("GET")

	// Delete an existing thought.
	r.HandleFunc("/thoughts/id/{id}", s.handleDeleteThought).Methods("DELETE")

	// Update the message of an existing thought.
	r.HandleFunc("/thoughts/id/{id}/message", s.handleUpdateMessage).Methods("PATCH")

	// Like an existing thought.
	r.HandleFunc("/thoughts/id/{id}/like", s.handleLikeThought).Methods("PATCH")
}

// handleListThoughts handles the route "GET /thoughts".
// It fetches all thoughts and runs the feed pipeline over them with the
// controls parsed from the query string and the resolved viewer.
func (s *Server) handleListThoughts(w http.ResponseWriter, r *http.Request) {
	thoughts, err := s.ts.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	params := feed.ParseParams(r.URL.Query())
	page := feed.Build(thoughts, params, auth.GetUser(r.Context()))

	if err := json.NewEncoder(w).Encode(&page); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikedThoughts handles the route "GET /thoughts/liked".
// It returns the thoughts the authed user has liked, newest first.
func (s *Server) handleLikedThoughts(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	thoughts, err := s.ts.LikedByUserID(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	results := feed.ProjectAll(thoughts, user)
	if err := json.NewEncoder(w).Encode(&results); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetThought handles the route "GET /thoughts/id/{id}".
func (s *Server) handleGetThought(w http.ResponseWriter, r *http.Request) {
	id, err := parseThoughtID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	thought, err := s.ts.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	result := feed.Project(*thought, auth.GetUser(r.Context()))
	if err := json.NewEncoder(w).Encode(&result); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreateThought handles the route "POST /thoughts".
// The thought is attributed to the resolved user, or to no one.
func (s *Server) handleCreateThought(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	thought := domain.Thought{Message: body.Message}
	if user != nil {
		userId := user.ID
		thought.UserID = &userId
	}

	if err := s.ts.Create(&thought); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Return the persisted thought in its projected shape, so the edit
	// token and the raw creator id stay on the server.
	result := feed.Project(thought, user)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&result); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteThought handles the route "DELETE /thoughts/id/{id}".
// It returns the removed thought. Deleting an already-deleted id yields 404.
func (s *Server) handleDeleteThought(w http.ResponseWriter, r *http.Request) {
	id, err := parseThoughtID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Fetch the thought from the database, so the removed entity can be
	// returned and a missing id turns into a not-found error.
	thought, err := s.ts.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.ts.Delete(thought); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	result := feed.Project(*thought, auth.GetUser(r.Context()))
	if err := json.NewEncoder(w).Encode(&result); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateMessage handles the route "PATCH /thoughts/id/{id}/message".
// The new message is validated against the same constraints as on create.
func (s *Server) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseThoughtID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	thought, err := s.ts.UpdateMessage(id, body.Message)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	result := feed.Project(*thought, auth.GetUser(r.Context()))
	if err := json.NewEncoder(w).Encode(&result); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikeThought handles the route "PATCH /thoughts/id/{id}/like".
// It appends a like record attributed to the resolved user, or to no one.
// Likes are not de-duplicated: every call increments the count.
func (s *Server) handleLikeThought(w http.ResponseWriter, r *http.Request) {
	id, err := parseThoughtID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	var userId *int
	user := auth.GetUser(r.Context())
	if user != nil {
		uid := user.ID
		userId = &uid
	}

	thought, err := s.ts.Like(id, userId)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	result := feed.Project(*thought, user)
	if err := json.NewEncoder(w).Encode(&result); err != nil {
		errs.LogError(r, err)
	}
}

// parseThoughtID parses the {id} route param. A malformed id is a client
// error, distinct from a well-formed id that matches no record.
func parseThoughtID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errs.Errorf(errs.EINVALID, "Invalid id: %s", raw)
	}
	return id, nil
}
