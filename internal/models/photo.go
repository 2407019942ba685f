package models

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// PhotoSize returns the decoded byte size of a data URL photo. Non data URL
// values are measured as raw bytes.
func PhotoSize(photo string) int {
	if photo == "" {
		return 0
	}
	idx := strings.Index(photo, ",")
	if !strings.HasPrefix(photo, "data:") || idx < 0 {
		return len(photo)
	}
	header, payload := photo[:idx], photo[idx+1:]
	if !strings.HasSuffix(header, ";base64") {
		return len(payload)
	}
	padding := len(payload) - len(strings.TrimRight(payload, "="))
	return len(payload)*3/4 - padding
}

// EncodePhoto wraps raw image bytes in a base64 data URL.
func EncodePhoto(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("unsupported photo type %s", mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
