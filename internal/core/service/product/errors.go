package product

import "errors"

var (
	// store errors
	ErrRead  = errors.New("failed to read products")
	ErrParse = errors.New("failed to parse products")
	ErrWrite = errors.New("failed to save products")

	// request errors
	ErrInvalidBody     = errors.New("request body must be a JSON object")
	ErrMissingID       = errors.New("product id is required")
	ErrProductNotFound = errors.New("product not found")
)
