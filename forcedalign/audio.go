package forcedalign

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// fallbackMIME is used for headerless audio such as raw PCM.
const fallbackMIME = "application/octet-stream"

// DetectAudio sniffs the content type of data. ok is false when the content
// is recognisably something other than audio, such as text or an image.
// Video containers are accepted since they carry audio tracks.
func DetectAudio(data []byte) (mime string, ok bool) {
	m := mimetype.Detect(data)
	mime = m.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	switch {
	case strings.HasPrefix(mime, "audio/"), strings.HasPrefix(mime, "video/"):
		return mime, true
	case mime == fallbackMIME:
		return mime, true
	}
	return mime, false
}

// DataURI encodes audio as a base64 data URI with its sniffed content type.
func DataURI(audio []byte) string {
	mime, ok := DetectAudio(audio)
	if !ok {
		mime = fallbackMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(audio)
}

// AudioExtension returns the file extension, with dot, matching the sniffed
// content of data, or ".bin" when none is known.
func AudioExtension(data []byte) string {
	if ext := mimetype.Detect(data).Extension(); ext != "" {
		return ext
	}
	return ".bin"
}
