package module

import "errors"

var (
	ErrNotFound          = errors.New("module not found")
	ErrCriterionNotFound = errors.New("acceptance criterion not found")
	ErrCommentRequired   = errors.New("rejection requires a comment")
)
