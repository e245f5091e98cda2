package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// MaxCreditAmount caps one top-up request.
const MaxCreditAmount = 100000

type CreditPoolRequest struct {
	Amount      int    `json:"amount"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (req *CreditPoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1), validation.Max(MaxCreditAmount)),
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Description, validation.Length(0, 255)),
	)
}

type DebitPoolRequest struct {
	Amount      int    `json:"amount"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (req *DebitPoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Description, validation.Length(0, 255)),
	)
}

type GiveRewardRequest struct {
	UserID      uint   `json:"user_id"`
	Amount      int    `json:"amount"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (req *GiveRewardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Description, validation.Length(0, 255)),
	)
}
