package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Transaction errors
var (
	ErrEmptyDescription  = errors.New("the description must not be empty")
	ErrAmountNotPositive = errors.New("the amount must be greater than zero")
	ErrInvalidKind       = errors.New("the transaction type must be either 'income' or 'expense'")
	ErrInvalidSeries     = errors.New("installmentCurrent and installmentTotal must both be set with 1 <= installmentCurrent <= installmentTotal, or both be empty")

	ErrSalaryAlreadyBooked = errors.New("the automatic salary for this month has already been booked")
)

// Category errors
var (
	ErrCategoryNameEmpty     = errors.New("the category name must not be empty")
	ErrCategoryNameNotUnique = errors.New("the category name must be unique")
)

// Settings errors
var (
	ErrSalaryDayInvalid     = errors.New("the salary day must be between 1 and 31")
	ErrSalaryAmountNegative = errors.New("the salary amount must not be negative")
)

// User errors
var (
	ErrEmailTaken = errors.New("an account with this email address already exists")
)
