package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (req *CreatePostRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Content, validation.Required, validation.Length(1, 5000)),
	)
}
