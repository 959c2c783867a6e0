package service

import "errors"

var (
	ErrDuplicateTool    = errors.New("duplicate tool name")
	ErrDuplicateEntry   = errors.New("duplicate entry id")
	ErrInvalidSchema    = errors.New("invalid input schema")
	ErrInvalidPattern   = errors.New("invalid path pattern")
	ErrNoDomains        = errors.New("entry declares no domains")
	ErrToolNotFound     = errors.New("tool not found")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrNotApplicable    = errors.New("tool not applicable on current page")
)
