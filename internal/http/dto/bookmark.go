package dto

type CreateBookmarkRequest struct {
	UserID  int64 `json:"user_id" validate:"required,min=1"`
	VerseID int64 `json:"verse_id" validate:"required,min=1"`
}

func (r *CreateBookmarkRequest) Validate() []ValidationError {
	return Validate(r)
}
