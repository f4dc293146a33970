package apperrors

// Domain errors. The messages are the exact strings the views surface, so
// they are declared once here and never re-spelled in handlers.
var (
	ErrCredentialsTaken   = AlreadyExists("Username/Email already taken")
	ErrAccessUnauthorized = Forbidden("Access unauthorized.")
	ErrInvalidCredentials = Unauthorized("Invalid credentials.")
	ErrUserNotFound       = NotFound("user not found")
	ErrMessageNotFound    = NotFound("message not found")

	ErrUsernameRequired = InvalidArg("You have to enter a username")
	ErrEmailRequired    = InvalidArg("You have to enter an email address")
	ErrPasswordRequired = InvalidArg("You have to enter a password")
	ErrPasswordTooShort = InvalidArg("Password must be at least 6 characters long")

	ErrMessageTextRequired = InvalidArg("You have to enter a message")
	ErrMessageTooLong      = InvalidArg("Message must be 140 characters or fewer")

	ErrSelfFollow = InvalidArg("You cannot follow yourself")
	ErrSelfLike   = InvalidArg("You cannot like your own message")
)

func ErrDatabase(cause error) error {
	return Wrap(CodeInternal, "database error", cause)
}
