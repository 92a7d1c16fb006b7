package domain

import "errors"

// Signup / credential errors
var (
	ErrEmailInUse        = errors.New("this email is already in use")
	ErrAlreadyRegistered = errors.New("this email is already registered")
	ErrNoSuchAccount     = errors.New("no account found for this email")
	ErrInvalidPassword   = errors.New("incorrect password")
	ErrLinkInvalid       = errors.New("verification link is invalid or expired")
	ErrNotVerified       = errors.New("invalid verification or email not verified")
	ErrUserNotFound      = errors.New("user not found")
)

// Validation errors
var (
	ErrInvalidEmail      = errors.New("please provide a valid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrMissingFields     = errors.New("missing required fields")
	ErrTextTooLong       = errors.New("comment text cannot exceed 1000 characters")
	ErrInvalidDeviceType = errors.New("invalid device type")
	ErrInvalidRole       = errors.New("invalid role")
)

// Site / invite errors
var (
	ErrSiteNotFound   = errors.New("site not found")
	ErrForbidden      = errors.New("no permission for this site")
	ErrAlreadyAllowed = errors.New("user already has access")
	ErrAlreadyInvited = errors.New("user already invited")
	ErrInviteInvalid  = errors.New("invite is invalid or expired")
)

// Store errors
var (
	// ErrDuplicateKey is surfaced by repositories when a unique index
	// rejects an insert. ID generators treat it as the signal to retry
	// with a fresh candidate.
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
)
