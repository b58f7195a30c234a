package forcedalign

import (
	"time"

	"github.com/kbukum/aligner/alignment"
	"github.com/kbukum/aligner/provider"
)

// Request is the input of one forced-alignment call.
type Request struct {
	// Audio is the raw audio file content.
	Audio []byte
	// Language is an optional ISO code. Empty lets the backend detect it.
	Language string
}

// Response is the word stream produced by a backend.
type Response struct {
	// Words are ordered by time with StartMs <= EndMs.
	Words []alignment.AlignedWord `json:"words"`
	// Language is the language the backend aligned against.
	Language string `json:"language,omitempty"`
	// Duration is the audio span covered by the words.
	Duration time.Duration `json:"duration"`
	// Cached is set when the response was served from the word-stream cache.
	Cached bool `json:"-"`
}

// Provider is implemented by every forced-alignment backend.
type Provider = provider.RequestResponse[Request, *Response]

// NewRegistry creates a registry for forced-alignment backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
