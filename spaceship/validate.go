package spaceship

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks the paging bounds.
func (r PageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(0), validation.Max(MaxPage)),
		validation.Field(&r.Size, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
	)
}

func validateCreate(dto DTO) error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.Name, validation.Required.Error("cannot be null or empty")),
	)
}
