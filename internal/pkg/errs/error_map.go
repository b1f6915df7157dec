/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room, Seat, and Gift Business Logic Errors
	ErrRoomNotFound:          {Code: ErrRoomNotFound, Message: "Room not found."},
	ErrSeatIndexInvalid:      {Code: ErrSeatIndexInvalid, Message: "That seat does not exist."},
	ErrSeatUnavailable:       {Code: ErrSeatUnavailable, Message: "That seat is not available."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrGiftNotFound:          {Code: ErrGiftNotFound, Message: "Gift not found."},
	ErrGiftQuantityInvalid:   {Code: ErrGiftQuantityInvalid, Message: "Invalid gift quantity."},
	ErrGiftNoRecipients:      {Code: ErrGiftNoRecipients, Message: "Select at least one recipient."},
	ErrInsufficientCoins:     {Code: ErrInsufficientCoins, Message: "Not enough coins."},

	// 3xxx: User, Session, and Security Errors
	ErrSessionKicked:      {Code: ErrSessionKicked, Message: "You were signed in on another device."},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be at least 6 characters."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "This email is already registered."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found."},
	ErrAccountBanned:      {Code: ErrAccountBanned, Message: "This account is banned until %s.", Status: http.StatusForbidden},
	ErrCustomIDInvalid:    {Code: ErrCustomIDInvalid, Message: "Display ID must be exactly 8 digits."},
	ErrCustomIDTaken:      {Code: ErrCustomIDTaken, Message: "This display ID is already taken."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "You do not have permission to do that.", Status: http.StatusForbidden},

	// 4xxx: External Service Errors
	ErrImageGenFailed:    {Code: ErrImageGenFailed, Message: "Image generation failed. Please try again."},
	ErrImageDataInvalid:  {Code: ErrImageDataInvalid, Message: "Invalid image data."},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},

	// 5xxx: Internal System Errors
	ErrUnknown:             {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrDocumentStoreFailed: {Code: ErrDocumentStoreFailed, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
