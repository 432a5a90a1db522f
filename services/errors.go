package services

import "errors"

// Sentinel errors shared by the service layer. Controllers map these onto
// HTTP statuses; anything else is treated as a persistence failure.
var (
	// ErrNotFound means a referenced entreprise or devis does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrValidation means the input failed a server-side check
	ErrValidation = errors.New("validation failed")
)
