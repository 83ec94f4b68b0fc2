package crud

import (
	"unicode/utf8"

	"gorm.io/gorm"

	"happythoughts/domain"
	"happythoughts/errs"
)

// ThoughtService manages Thoughts and their like records.
// It implements the domain.ThoughtService interface.
type ThoughtService struct {
	thoughtValidator
}

// thoughtValidator runs validations on incoming Thought data.
// On success, it passes the data on to thoughtGorm.
// Otherwise, it returns the error of the validation that has failed.
type thoughtValidator struct {
	thoughtGorm
}

// thoughtGorm runs CRUD operations on the database using incoming Thought data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type thoughtGorm struct {
	db *gorm.DB
}

// NewThoughtService returns an instance of ThoughtService.
func NewThoughtService(db *gorm.DB) *ThoughtService {
	return &ThoughtService{
		thoughtValidator{
			thoughtGorm{
				db: db,
			},
		},
	}
}

// Ensure the ThoughtService struct properly implements the domain.ThoughtService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ThoughtService = &ThoughtService{}

// Create runs validations needed for creating new Thought database records.
// It also generates the thought's edit token.
func (tv *thoughtValidator) Create(thought *domain.Thought) error {
	err := runThoughtValFns(thought,
		tv.messageMinLength,
		tv.messageMaxLength,
		tv.editTokenSetIfUnset)
	if err != nil {
		return err
	}
	return tv.thoughtGorm.Create(thought)
}

// Delete runs validations needed for deleting existing Thought database records.
func (tv *thoughtValidator) Delete(thought *domain.Thought) error {
	err := runThoughtValFns(thought, tv.idValid)
	if err != nil {
		return err
	}
	return tv.thoughtGorm.Delete(thought)
}

// UpdateMessage re-validates the new message against the same constraints
// as Create before saving it.
func (tv *thoughtValidator) UpdateMessage(id int, message string) (*domain.Thought, error) {
	check := domain.Thought{ID: id, Message: message}
	err := runThoughtValFns(&check,
		tv.idValid,
		tv.messageMinLength,
		tv.messageMaxLength)
	if err != nil {
		return nil, err
	}
	return tv.thoughtGorm.UpdateMessage(id, message)
}

// Like validates the id before recording the like event.
func (tv *thoughtValidator) Like(id int, userId *int) (*domain.Thought, error) {
	check := domain.Thought{ID: id}
	if err := runThoughtValFns(&check, tv.idValid); err != nil {
		return nil, err
	}
	return tv.thoughtGorm.Like(id, userId)
}

// runThoughtValFns runs any number of functions of type thoughtValFn on the passed in Thought object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runThoughtValFns(thought *domain.Thought, fns ...thoughtValFn) error {
	for _, fn := range fns {
		if err := fn(thought); err != nil {
			return err
		}
	}
	return nil
}

// A thoughtValFn is any function that takes in a pointer to a domain.Thought object and returns an error.
type thoughtValFn = func(thought *domain.Thought) error

// editTokenSetIfUnset generates the thought's edit token if none is present.
func (tv *thoughtValidator) editTokenSetIfUnset(thought *domain.Thought) error {
	if thought.EditToken == "" {
		thought.EditToken = newEditToken()
	}
	return nil
}

// idValid makes sure that the passed in Thought ID is greater than 0.
func (tv *thoughtValidator) idValid(thought *domain.Thought) error {
	if thought.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Thought ID is invalid.")
	}
	return nil
}

// messageMaxLength makes sure that the message does not exceed the maximum message length.
func (tv *thoughtValidator) messageMaxLength(thought *domain.Thought) error {
	if utf8.RuneCountInString(thought.Message) > 140 {
		return errs.Errorf(errs.EINVALID, "Thought message max length is 140 characters.")
	}
	return nil
}

// messageMinLength makes sure that the message is not empty.
func (tv *thoughtValidator) messageMinLength(thought *domain.Thought) error {
	if thought.Message == "" {
		return errs.Errorf(errs.EINVALID, "Thought message must not be empty.")
	}
	return nil
}

// All retrieves every Thought record, with its like records preloaded.
// Filtering, sorting and pagination happen in the feed pipeline, not here.
func (tg *thoughtGorm) All() ([]domain.Thought, error) {
	var thoughts []domain.Thought
	err := tg.db.
		Preload("Hearts").
		Find(&thoughts).Error
	if err != nil {
		return nil, err
	}
	return thoughts, nil
}

// ByID retrieves a single Thought by ID, along with its like records.
func (tg *thoughtGorm) ByID(id int) (*domain.Thought, error) {
	var thought domain.Thought
	err := tg.db.
		Preload("Hearts").
		First(&thought, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "Thought with id %d not found.", id)
		}
		return nil, err
	}
	return &thought, nil
}

// LikedByUserID retrieves the thoughts the given user has liked, newest
// first. A thought appears once no matter how many times it was liked.
func (tg *thoughtGorm) LikedByUserID(userId int) ([]domain.Thought, error) {
	var thoughts []domain.Thought
	err := tg.db.
		Distinct("thoughts.*").
		Joins("JOIN likes ON likes.thought_id = thoughts.id").
		Where("likes.user_id = ?", userId).
		Preload("Hearts").
		Order("thoughts.created_at desc").
		Find(&thoughts).Error
	if err != nil {
		return nil, err
	}
	return thoughts, nil
}

// Create stores the data from the Thought object in a new database record.
func (tg *thoughtGorm) Create(thought *domain.Thought) error {
	err := tg.db.Create(thought).Error
	if err != nil {
		return err
	}
	return nil
}

// Delete permanently deletes a Thought record from the database, along with
// its like records.
func (tg *thoughtGorm) Delete(thought *domain.Thought) error {
	err := tg.db.Delete(&domain.Like{}, "thought_id = ?", thought.ID).Error
	if err != nil {
		return err
	}
	err = tg.db.Delete(&domain.Thought{}, "id = ?", thought.ID).Error
	if err != nil {
		return err
	}
	return nil
}

// UpdateMessage saves a new message on an existing Thought record and
// returns the updated record.
func (tg *thoughtGorm) UpdateMessage(id int, message string) (*domain.Thought, error) {
	thought, err := tg.ByID(id)
	if err != nil {
		return nil, err
	}
	err = tg.db.Model(thought).Update("message", message).Error
	if err != nil {
		return nil, err
	}
	return thought, nil
}

// Like appends a like record attributed to the given user (or to no one)
// and returns the thought with its refreshed like records.
func (tg *thoughtGorm) Like(id int, userId *int) (*domain.Thought, error) {
	if _, err := tg.ByID(id); err != nil {
		return nil, err
	}
	like := domain.Like{ThoughtID: id, UserID: userId}
	if err := tg.db.Create(&like).Error; err != nil {
		return nil, err
	}
	return tg.ByID(id)
}
