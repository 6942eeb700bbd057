package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("please use a different username")
	ErrEmailTaken         = errors.New("please use a different email address")
	ErrFollowSelf         = errors.New("you cannot follow yourself")
	ErrUnfollowSelf       = errors.New("you cannot unfollow yourself")
	ErrInvalidPost        = errors.New("post body must be 1 to 140 characters")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrStorageUnavailable = errors.New("storage not configured")
)
