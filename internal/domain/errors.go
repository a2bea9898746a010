package domain

import "errors"

var ErrNotFound = errors.New("not found")
var ErrInvalidSample = errors.New("invalid network sample")
var ErrInvalidPosition = errors.New("invalid playback position")
var ErrInvalidViewingEvent = errors.New("invalid viewing event")
var ErrUnknownModel = errors.New("unknown forecast model")
