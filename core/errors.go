package core

import "errors"

var (
	ErrUnknownCommand = errors.New("unknown command")
)
