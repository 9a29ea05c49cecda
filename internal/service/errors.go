package service

import (
	"errors"
	"fmt"
)

// Error classes. Every specific error below wraps exactly one of them so
// handlers can map to a status with errors.Is.
var (
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound       = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentaryNotFound = fmt.Errorf("commentary %w", ErrNotFound)

	ErrEmailRequired       = fmt.Errorf("%w: email is required", ErrValidation)
	ErrEmailTaken          = fmt.Errorf("%w: user with this email already exists", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	ErrInvalidCredentials  = fmt.Errorf("%w: no active account found with the given credentials", ErrUnauthorized)
	ErrSelfFollow          = fmt.Errorf("%w: you cannot follow yourself", ErrValidation)
	ErrTitleRequired       = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong        = fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLength)
	ErrContentRequired     = fmt.Errorf("%w: content is required", ErrValidation)
	ErrPublishTimeRequired = fmt.Errorf("%w: publish_time is required when the post is not published", ErrValidation)
	ErrCommentEmpty        = fmt.Errorf("%w: comment content must not be empty", ErrValidation)
	ErrPostIDRequired      = fmt.Errorf("%w: post_id is required", ErrValidation)
	ErrInvalidImage        = fmt.Errorf("%w: upload a valid image", ErrValidation)
	ErrImageTooLarge       = fmt.Errorf("%w: image is too large", ErrValidation)
	ErrTagInvalid          = fmt.Errorf("%w: tag must contain letters or digits", ErrValidation)
)
