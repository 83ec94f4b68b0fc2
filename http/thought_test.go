package http_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thoughtResponse struct {
	ID        int    `json:"id"`
	Message   string `json:"message"`
	Hearts    int    `json:"hearts"`
	IsCreator bool   `json:"isCreator"`
}

type pageResponse struct {
	Page               int               `json:"page"`
	NumOfPages         int               `json:"numOfPages"`
	NumOfTotalMessages int               `json:"numOfTotalMessages"`
	PageResults        []thoughtResponse `json:"pageResults"`
}

func TestCreateThought(t *testing.T) {
	t.Run("anonymous create", func(t *testing.T) {
		srv, _, ts := newTestServer()

		w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": "hello"})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp thoughtResponse
		decode(t, w, &resp)
		assert.Equal(t, "hello", resp.Message)
		assert.Equal(t, 0, resp.Hearts)
		assert.False(t, resp.IsCreator)

		// The persisted thought has no owner.
		require.Len(t, ts.thoughts, 1)
		assert.Nil(t, ts.thoughts[0].UserID)
	})

	t.Run("authenticated create records the owner", func(t *testing.T) {
		srv, us, ts := newTestServer()
		token := signup(t, srv, "Anna", "anna@example.com")

		w := do(t, srv, "POST", "/thoughts", token, map[string]string{"message": "mine"})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp thoughtResponse
		decode(t, w, &resp)
		assert.True(t, resp.IsCreator)

		require.Len(t, ts.thoughts, 1)
		require.NotNil(t, ts.thoughts[0].UserID)
		assert.Equal(t, us.users[0].ID, *ts.thoughts[0].UserID)
	})

	t.Run("validation failures", func(t *testing.T) {
		srv, _, _ := newTestServer()

		w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, srv, "POST", "/thoughts", "", map[string]string{"message": strings.Repeat("x", 141)})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("response never leaks internal fields", func(t *testing.T) {
		srv, _, _ := newTestServer()

		w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": "hello"})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "editToken")
		assert.NotContains(t, w.Body.String(), "edit-token")
		assert.NotContains(t, w.Body.String(), "userId")
	})
}

func TestListThoughts(t *testing.T) {
	srv, _, _ := newTestServer()

	for i := 0; i < 12; i++ {
		w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": fmt.Sprintf("thought %d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, srv, "GET", "/thoughts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page pageResponse
	decode(t, w, &page)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.NumOfPages)
	assert.Equal(t, 12, page.NumOfTotalMessages)
	require.Len(t, page.PageResults, 10)

	// Default order is newest first.
	assert.Equal(t, "thought 11", page.PageResults[0].Message)

	// The second page holds the remainder; a page beyond that is empty.
	w = do(t, srv, "GET", "/thoughts?page=2", "", nil)
	decode(t, w, &page)
	assert.Len(t, page.PageResults, 2)

	w = do(t, srv, "GET", "/thoughts?page=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Empty(t, page.PageResults)
}

func TestListThoughtsMinLikes(t *testing.T) {
	srv, _, _ := newTestServer()

	w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": "popular"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created thoughtResponse
	decode(t, w, &created)

	// Like it twice anonymously.
	likePath := fmt.Sprintf("/thoughts/id/%d/like", created.ID)
	for i := 0; i < 2; i++ {
		w = do(t, srv, "PATCH", likePath, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	var liked thoughtResponse
	decode(t, w, &liked)
	assert.Equal(t, 2, liked.Hearts)

	var page pageResponse
	w = do(t, srv, "GET", "/thoughts?minLikes=2", "", nil)
	decode(t, w, &page)
	assert.Len(t, page.PageResults, 1)

	w = do(t, srv, "GET", "/thoughts?minLikes=3", "", nil)
	decode(t, w, &page)
	assert.Empty(t, page.PageResults)

	// A malformed minLikes degrades to no filter instead of failing.
	w = do(t, srv, "GET", "/thoughts?minLikes=lots", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Len(t, page.PageResults, 1)
}

func TestGetThought(t *testing.T) {
	srv, _, _ := newTestServer()

	w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created thoughtResponse
	decode(t, w, &created)

	w = do(t, srv, "GET", fmt.Sprintf("/thoughts/id/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp thoughtResponse
	decode(t, w, &resp)
	assert.Equal(t, created.ID, resp.ID)

	w = do(t, srv, "GET", "/thoughts/id/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, "GET", "/thoughts/id/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteThought(t *testing.T) {
	srv, _, _ := newTestServer()

	w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": "doomed"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created thoughtResponse
	decode(t, w, &created)

	path := fmt.Sprintf("/thoughts/id/%d", created.ID)

	// The removed entity comes back in the response.
	w = do(t, srv, "DELETE", path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp thoughtResponse
	decode(t, w, &resp)
	assert.Equal(t, "doomed", resp.Message)

	// Repeating the delete yields not-found, not a crash.
	w = do(t, srv, "DELETE", path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// And the thought is gone.
	w = do(t, srv, "GET", path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, "DELETE", "/thoughts/id/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMessage(t *testing.T) {
	srv, _, _ := newTestServer()

	w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": "first draft"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created thoughtResponse
	decode(t, w, &created)

	path := fmt.Sprintf("/thoughts/id/%d/message", created.ID)

	w = do(t, srv, "PATCH", path, "", map[string]string{"message": "final"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp thoughtResponse
	decode(t, w, &resp)
	assert.Equal(t, "final", resp.Message)

	// Repeating the same update succeeds and returns the unchanged entity.
	w = do(t, srv, "PATCH", path, "", map[string]string{"message": "final"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, "final", resp.Message)

	// The new message is validated like on create.
	w = do(t, srv, "PATCH", path, "", map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, "PATCH", "/thoughts/id/999/message", "", map[string]string{"message": "final"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeThought(t *testing.T) {
	srv, us, ts := newTestServer()
	token := signup(t, srv, "Anna", "anna@example.com")

	w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": "likeable"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created thoughtResponse
	decode(t, w, &created)

	path := fmt.Sprintf("/thoughts/id/%d/like", created.ID)

	// Anonymous likes are recorded with no actor.
	w = do(t, srv, "PATCH", path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp thoughtResponse
	decode(t, w, &resp)
	assert.Equal(t, 1, resp.Hearts)
	assert.Nil(t, ts.thoughts[0].Hearts[0].UserID)

	// An authenticated like records the actor.
	w = do(t, srv, "PATCH", path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Hearts)
	require.NotNil(t, ts.thoughts[0].Hearts[1].UserID)
	assert.Equal(t, us.users[0].ID, *ts.thoughts[0].Hearts[1].UserID)

	// Likes are not de-duplicated: the same user liking again still counts.
	w = do(t, srv, "PATCH", path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, 3, resp.Hearts)

	w = do(t, srv, "PATCH", "/thoughts/id/999/like", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, "PATCH", "/thoughts/id/nope/like", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikedThoughts(t *testing.T) {
	srv, _, _ := newTestServer()
	annaToken := signup(t, srv, "Anna", "anna@example.com")
	bennyToken := signup(t, srv, "Benny", "benny@example.com")

	// Three thoughts; Anna likes the first and third.
	var ids []int
	for _, msg := range []string{"one", "two", "three"} {
		w := do(t, srv, "POST", "/thoughts", "", map[string]string{"message": msg})
		require.Equal(t, http.StatusCreated, w.Code)
		var created thoughtResponse
		decode(t, w, &created)
		ids = append(ids, created.ID)
	}
	for _, id := range []int{ids[0], ids[2]} {
		w := do(t, srv, "PATCH", fmt.Sprintf("/thoughts/id/%d/like", id), annaToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("requires authentication", func(t *testing.T) {
		w := do(t, srv, "GET", "/thoughts/liked", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = do(t, srv, "GET", "/thoughts/liked", "bogus-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("returns the viewer's liked thoughts newest first", func(t *testing.T) {
		w := do(t, srv, "GET", "/thoughts/liked", annaToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp []thoughtResponse
		decode(t, w, &resp)
		require.Len(t, resp, 2)
		assert.Equal(t, "three", resp[0].Message)
		assert.Equal(t, "one", resp[1].Message)
	})

	t.Run("another user has no liked thoughts", func(t *testing.T) {
		w := do(t, srv, "GET", "/thoughts/liked", bennyToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp []thoughtResponse
		decode(t, w, &resp)
		assert.Empty(t, resp)
	})
}
