package generator

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	iconURIPrefix   = "data:image/"
	base64Separator = ";base64,"
)

// DecodeIcon validates that dataURI declares itself as a base64 image data
// URI and returns the decoded payload bytes. The bytes are accepted
// verbatim: no dimension or file-type sniffing is performed.
func DecodeIcon(dataURI string) ([]byte, error) {
	if !strings.HasPrefix(dataURI, iconURIPrefix) {
		return nil, errorf(KindInvalidIcon, "icon must be an image data uri")
	}

	idx := strings.Index(dataURI, base64Separator)
	if idx < 0 {
		return nil, errorf(KindInvalidIcon, "icon data uri is not base64 encoded")
	}

	raw, err := base64.StdEncoding.DecodeString(dataURI[idx+len(base64Separator):])
	if err != nil {
		return nil, newError(KindInvalidIcon, fmt.Errorf("decode icon payload: %w", err))
	}
	return raw, nil
}
