package quiz

import "errors"

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrNoQuestions  = errors.New("quiz has no questions")
	ErrInvalid      = errors.New("invalid input")
)
