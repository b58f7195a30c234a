package forcedalign

import (
	"strings"
	"testing"
)

// wavHeader is the first bytes of a RIFF/WAVE file.
var wavHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")

func TestDetectAudio(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantOK   bool
	}{
		{"wav", wavHeader, "audio/wav", true},
		{"headerless bytes", []byte{0x00, 0x01, 0xfe, 0x02, 0x80}, "application/octet-stream", true},
		{"plain text", []byte("this is not audio at all"), "text/plain", false},
		{"json", []byte(`{"segments":[]}`), "application/json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, ok := DetectAudio(tt.data)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v (mime %q)", ok, tt.wantOK, mime)
			}
			if mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
		})
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI(wavHeader)
	if !strings.HasPrefix(uri, "data:audio/wav;base64,UklGR") {
		t.Errorf("unexpected data URI prefix: %.40s", uri)
	}
	if got := DataURI([]byte("plain text")); !strings.HasPrefix(got, "data:application/octet-stream;base64,") {
		t.Errorf("non-audio should fall back to octet-stream, got %.50s", got)
	}
}
