package domain

// Voice is one entry of the browser's synthesis voice catalog.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

type ListenRequest struct {
	Lang           string `json:"lang"`
	Continuous     bool   `json:"continuous"`
	InterimResults bool   `json:"interimResults"`
}

// SpeakRequest is what the browser needs to build an utterance. Voice is empty when no voice fits.
type SpeakRequest struct {
	Text   string  `json:"text"`
	Lang   string  `json:"lang"`
	Voice  string  `json:"voice,omitempty"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureRecording
	CaptureError
	CaptureDone
)

func (s CaptureState) String() string {
	switch s {
	case CaptureIdle:
		return "idle"
	case CaptureRecording:
		return "recording"
	case CaptureError:
		return "error"
	case CaptureDone:
		return "done"
	}
	return "unknown"
}

type PlaybackState int

const (
	PlaybackIdle PlaybackState = iota
	PlaybackSpeaking
)

func (s PlaybackState) String() string {
	if s == PlaybackSpeaking {
		return "speaking"
	}
	return "idle"
}
