package mailservice

import "errors"

var (
	// ErrValidation is returned before any side effect when the sender or
	// recipient is blank.
	ErrValidation = errors.New("mailservice: invalid mail request")

	ErrBlankSender    = errors.New("mailservice: sender must not be blank")
	ErrBlankRecipient = errors.New("mailservice: recipient must not be blank")
)
