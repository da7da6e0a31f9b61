package domain

import "errors"

var (
	ErrUnknownTopic   = errors.New("unknown topic")
	ErrUnknownLevel   = errors.New("unknown level")
	ErrUnknownTeacher = errors.New("unknown teacher")
	ErrUnknownScreen  = errors.New("unknown screen")

	ErrTurnInFlight        = errors.New("a turn is already in flight")
	ErrCaptureActive       = errors.New("capture already active")
	ErrCaptureUnavailable  = errors.New("speech capture unavailable")
	ErrPlaybackUnavailable = errors.New("speech playback unavailable")
	ErrMalformedReply      = errors.New("malformed reply")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")

	ErrStoreDisabled  = errors.New("store disabled")
	ErrAvatarNotFound = errors.New("avatar not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrEmptyText      = errors.New("empty text")
)
