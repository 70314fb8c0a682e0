package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures by origin.
type ErrorKind string

const (
	KindValidation     ErrorKind = "VALIDATION_ERROR"
	KindRemote         ErrorKind = "REMOTE_ERROR"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindCredential     ErrorKind = "INVALID_CREDENTIALS"
	KindMissingSession ErrorKind = "MISSING_SESSION"
	KindUnavailable    ErrorKind = "UNAVAILABLE"
)

// AppError is a failure surfaced to the user as a localized notification.
type AppError struct {
	Kind ErrorKind
	Key  MessageKey
	Err  error
}

func (e *AppError) Error() string {
	msg := Message(e.Key, LocaleEnglish)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Localized returns the notification text for locale.
func (e *AppError) Localized(locale string) string {
	return Message(e.Key, locale)
}

func NewValidationError(key MessageKey) *AppError {
	return &AppError{Kind: KindValidation, Key: key}
}

func NewRemoteError(key MessageKey, err error) *AppError {
	return &AppError{Kind: KindRemote, Key: key, Err: err}
}

func NewNotFoundError(key MessageKey, err error) *AppError {
	return &AppError{Kind: KindNotFound, Key: key, Err: err}
}

func NewCredentialError() *AppError {
	return &AppError{Kind: KindCredential, Key: MsgInvalidCredentials}
}

func NewMissingSessionError() *AppError {
	return &AppError{Kind: KindMissingSession, Key: MsgLoginRequired}
}

func NewUnavailableError(key MessageKey) *AppError {
	return &AppError{Kind: KindUnavailable, Key: key}
}

// KindOf returns the kind of the first AppError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
