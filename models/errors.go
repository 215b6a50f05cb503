package models

// ErrorNotFound is returned when a lookup by slug, id or username misses.
type ErrorNotFound struct {
	Type    string
	Message string
}

func (e *ErrorNotFound) Error() string { return e.Message }

// ErrorPermission is returned when the caller does not own the resource.
type ErrorPermission struct {
	Type    string
	Message string
}

func (e *ErrorPermission) Error() string { return e.Message }

// ErrorConflict is a domain rule violation. Fields holds machine-readable
// reasons keyed by input field.
type ErrorConflict struct {
	Type    string
	Message string
	Fields  map[string][]string
}

func (e *ErrorConflict) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Type    string
	Message string
	Fields  map[string][]string
}

func (e *ErrorUnauthorized) Error() string { return e.Message }

type ErrorRateLimit struct {
	Type    string
	Message string
}

func (e *ErrorRateLimit) Error() string { return e.Message }

var (
	ErrArticleNotFound = &ErrorNotFound{
		Type:    "ArticleNotFound",
		Message: "Article with this slug does not exist.",
	}
	ErrProfileNotFound = &ErrorNotFound{
		Type:    "ProfileNotFound",
		Message: "Profile with this username does not exist.",
	}
	ErrCommentNotFound = &ErrorNotFound{
		Type:    "CommentNotFound",
		Message: "Comment with this id does not exist.",
	}
	ErrUserNotFound = &ErrorNotFound{
		Type:    "UserNotFound",
		Message: "User with this username does not exist.",
	}

	ErrArticlePermission = &ErrorPermission{
		Type:    "ArticlePermission",
		Message: "Current user does not have permission to access the article.",
	}
	ErrCommentPermission = &ErrorPermission{
		Type:    "CommentPermission",
		Message: "Current user does not have permission to access the comment.",
	}
	ErrOwnProfileFollowing = &ErrorPermission{
		Type:    "OwnProfileFollowing",
		Message: "Own profile cannot be followed or unfollowed.",
	}

	ErrArticleAlreadyFavorited = &ErrorConflict{
		Type:    "ArticleAlreadyFavorited",
		Message: "Article has already been marked as a favorite.",
		Fields:  map[string][]string{"article": {"already favorited"}},
	}
	ErrArticleNotFavorited = &ErrorConflict{
		Type:    "ArticleNotFavorited",
		Message: "Article is not favorited.",
		Fields:  map[string][]string{"article": {"not favorited"}},
	}
	ErrArticleAlreadyPublished = &ErrorConflict{
		Type:    "ArticleAlreadyPublished",
		Message: "Article has already been published.",
		Fields:  map[string][]string{"article": {"already published"}},
	}
	ErrEmailAlreadyTaken = &ErrorConflict{
		Type:    "EmailAlreadyTaken",
		Message: "User with this email already exists.",
		Fields:  map[string][]string{"email": {"user with this email already exists."}},
	}
	ErrUsernameAlreadyTaken = &ErrorConflict{
		Type:    "UsernameAlreadyTaken",
		Message: "User with this username already exists.",
		Fields:  map[string][]string{"username": {"user with this username already exists."}},
	}
	ErrProfileAlreadyFollowed = &ErrorConflict{
		Type:    "ProfileAlreadyFollowed",
		Message: "Profile already followed.",
		Fields:  map[string][]string{"profile": {"already followed"}},
	}
	ErrProfileNotFollowed = &ErrorConflict{
		Type:    "ProfileNotFollowed",
		Message: "Profile was not followed.",
		Fields:  map[string][]string{"profile": {"not followed"}},
	}
	ErrIncorrectLoginInput = &ErrorConflict{
		Type:    "IncorrectLoginInput",
		Message: "Incorrect email or password.",
		Fields: map[string][]string{
			"email":    {"incorrect email or password."},
			"password": {"incorrect email or password."},
		},
	}

	ErrIncorrectJWTToken = &ErrorUnauthorized{
		Type:    "IncorrectJWTToken",
		Message: "Invalid JWT token.",
	}
	ErrMissingJWTToken = &ErrorUnauthorized{
		Type:    "MissingJWTToken",
		Message: "Authorization header required.",
	}

	ErrRateLimitExceeded = &ErrorRateLimit{
		Type:    "RateLimitExceeded",
		Message: "Rate limit exceeded. Please try again later.",
	}
)
