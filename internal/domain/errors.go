package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrSeatAlreadyReserved = errors.New("seat(s) are already reserved")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPaymentDeclined     = errors.New("payment declined")
)
