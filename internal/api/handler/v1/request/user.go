package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var slugExp = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreateCollegeRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (req *CreateCollegeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Slug, validation.Required, validation.Match(slugExp)),
	)
}
