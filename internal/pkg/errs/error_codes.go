/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Room, Seat, and Gift Business Logic Errors
const (
	// ErrRoomNotFound indicates that the requested room does not exist.
	ErrRoomNotFound = 2101

	// ErrSeatIndexInvalid indicates a seat command referenced an index outside the grid.
	ErrSeatIndexInvalid = 2102

	// ErrSeatUnavailable indicates a seat command targeted a locked or occupied seat.
	ErrSeatUnavailable = 2103

	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrGiftNotFound indicates that the referenced gift does not exist in the catalog.
	ErrGiftNotFound = 2301

	// ErrGiftQuantityInvalid indicates that the requested gift quantity is not an allowed value.
	ErrGiftQuantityInvalid = 2302

	// ErrGiftNoRecipients indicates a gift send with an empty recipient selection.
	ErrGiftNoRecipients = 2303

	// ErrInsufficientCoins indicates the sender's balance does not cover the gift cost.
	ErrInsufficientCoins = 2304
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrSessionKicked indicates that the current client connection has been terminated.
	ErrSessionKicked = 3001

	// ErrInvalidEmail indicates a malformed or disallowed email address.
	ErrInvalidEmail = 3101

	// ErrInvalidPassword indicates the supplied password does not meet requirements.
	ErrInvalidPassword = 3102

	// ErrUserAlreadyExists indicates the email is already registered.
	ErrUserAlreadyExists = 3103

	// ErrInvalidCredentials indicates an incorrect email or password at sign-in.
	ErrInvalidCredentials = 3104

	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = 3105

	// ErrAccountBanned indicates the account is banned until the given time.
	ErrAccountBanned = 3106

	// ErrCustomIDInvalid indicates the display ID is not an 8-digit number.
	ErrCustomIDInvalid = 3107

	// ErrCustomIDTaken indicates the display ID is already assigned to another account.
	ErrCustomIDTaken = 3108

	// ErrUnauthorized indicates a missing or invalid authentication token.
	ErrUnauthorized = 3201

	// ErrForbidden indicates the caller lacks the role required for the operation.
	ErrForbidden = 3202
)

// 4xxx: External Service Errors
const (
	// ErrImageGenFailed indicates the image generation backend returned an error or no image.
	ErrImageGenFailed = 4001

	// ErrImageDataInvalid indicates a supplied image is not a well-formed data URL.
	ErrImageDataInvalid = 4002

	// ErrFileStorageFailed indicates the object storage backend rejected an upload.
	ErrFileStorageFailed = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrDocumentStoreFailed indicates a document store read or write failed.
	ErrDocumentStoreFailed = 5001
)
