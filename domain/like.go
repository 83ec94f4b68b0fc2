package domain

import (
	"time"
)

// Like represents a single like event on a Thought. UserID is nil when the
// like was given anonymously. There is no uniqueness constraint on
// (ThoughtID, UserID): the same user liking the same thought again records
// another row, and every row counts.
type Like struct {
	ID        int  `json:"-"`
	ThoughtID int  `json:"-" gorm:"index"`
	UserID    *int `json:"-" gorm:"index"`

	CreatedAt time.Time `json:"-"`
}
