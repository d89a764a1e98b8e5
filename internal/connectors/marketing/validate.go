package marketing

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/storesync/internal/core/domain"
)

// validate checks a payload's struct tags before it is submitted.
func (c *Client) validate(resource domain.ResourceType, id string, payload any) error {
	err := c.validator.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &domain.ValidationError{Resource: resource, ID: id, Fields: []string{err.Error()}}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Namespace()+" "+fe.Tag())
	}
	return &domain.ValidationError{Resource: resource, ID: id, Fields: fields}
}
