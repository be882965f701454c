package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataURIPrefix = "data:"
	base64Marker  = ";base64,"
)

var ErrInvalidDataURI = errors.New("invalid base64 data uri")

// GetContentType returns the media type of a data URI such as "data:image/png;base64,...".
func GetContentType(file string) string {
	if !strings.HasPrefix(file, dataURIPrefix) {
		return ""
	}

	end := strings.Index(file, base64Marker)
	if end == -1 {
		return ""
	}

	return file[len(dataURIPrefix):end]
}

// Decode splits a data URI into its media type and decoded payload.
func Decode(file string) (contentType string, data []byte, err error) {
	contentType = GetContentType(file)
	if contentType == "" {
		return "", nil, ErrInvalidDataURI
	}

	payload := file[strings.Index(file, base64Marker)+len(base64Marker):]

	data, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	return contentType, data, nil
}
