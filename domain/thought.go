package domain

import (
	"time"
)

// Thought is a short message posted to the wall. A Thought may be posted
// anonymously, in which case UserID is nil.
type Thought struct {
	ID      int    `json:"id"`
	Message string `json:"message"`

	// Hearts holds one Like record per like event. The like count shown
	// to clients is always the length of this slice.
	Hearts []Like `json:"-" gorm:"foreignKey:ThoughtID"`

	// EditToken is an opaque secret generated once at creation. It must
	// never appear in any response body.
	EditToken string `json:"-"`

	// UserID references the creating user, nil for anonymous posts. It is
	// never exposed directly; responses carry a derived isCreator flag
	// instead.
	UserID *int `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
}

// ThoughtService is a set of methods to manipulate and work with the Thought model.
type ThoughtService interface {
	All() ([]Thought, error)
	ByID(id int) (*Thought, error)
	LikedByUserID(userId int) ([]Thought, error)
	Create(thought *Thought) error
	Delete(thought *Thought) error
	UpdateMessage(id int, message string) (*Thought, error)
	Like(id int, userId *int) (*Thought, error)
}
