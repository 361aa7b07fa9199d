package entity

import "errors"

var (
	ErrMissingAPIKey    = errors.New("missing GOOGLE_API_KEY in environment")
	ErrTemplateNotFound = errors.New("card template not found")
	ErrInvalidRequest   = errors.New("company is required")
)
