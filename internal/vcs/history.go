package vcs

import validation "github.com/go-ozzo/ozzo-validation/v4"

// History returns the most recent journaled operations, newest first.
func (s *Service) History(limit int) ([]*Operation, error) {
	if err := validation.Validate(limit, validation.Required, validation.Min(1)); err != nil {
		return nil, &ValidationError{Field: "limit", Err: err}
	}
	ops, err := s.store.ListOperations(limit)
	if err != nil {
		return nil, storageErr("listing operations", err)
	}
	return ops, nil
}
