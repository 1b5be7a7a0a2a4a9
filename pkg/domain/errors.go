package domain

import "errors"

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFileNotFound       = errors.New("file not found")
	ErrRoleNotFound       = errors.New("role not found")
)

// Validation errors
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password does not meet requirements")
)

// Login eligibility messages shown to the end user. The checks in
// UserService.CanLogin are evaluated in this order and the first
// failing one wins.
const (
	LoginMsgInvalid          = "Invalid login attempt."
	LoginMsgEmailUnconfirmed = "You must have a confirmed email to log in."
	LoginMsgNotApproved      = "Your user account requires approval by an admin before you can log in."
	LoginMsgDisabled         = "Your user account is currently disabled."
)
