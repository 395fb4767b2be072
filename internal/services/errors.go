// Package services holds the domain services. They receive their storage
// and cache handles at construction time; handlers translate the sentinel
// errors defined here into HTTP statuses without leaking internals.
package services

import "errors"

var (
	// auth / identity
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrInvalidCredential = errors.New("invalid email or password")

	// client lifecycle
	ErrClientNotFound    = errors.New("client not found")
	ErrManagerNotFound   = errors.New("manager not found")
	ErrNotYourClient     = errors.New("client does not belong to this manager")
	ErrClientDeleted     = errors.New("client account has been deleted")
	ErrInvalidActivation = errors.New("activation token is invalid or expired")

	// balance / transfer
	ErrInvalidAmount       = errors.New("amount must be a positive integer number of cents")
	ErrInsufficientCredit  = errors.New("insufficient credit balance")
	ErrInsufficientBalance = errors.New("insufficient account balance")
	ErrSelfTransfer        = errors.New("cannot transfer to yourself")
	ErrRecipientNotFound   = errors.New("no active client with this email")
	ErrClientInactive      = errors.New("client account is blocked or not activated")

	// chat
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationClosed   = errors.New("conversation is closed")

	// notifications / transactions
	ErrNotificationNotFound = errors.New("notification not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
)
