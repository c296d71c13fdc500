// audio/errors.go
package audio

import "errors"

var (
	ErrOperationActive = errors.New("another audio operation is active")
	ErrUnknownKind     = errors.New("unknown operation kind")
	ErrEngineClosed    = errors.New("audio engine closed")
)
