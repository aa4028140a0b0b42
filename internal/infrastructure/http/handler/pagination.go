package handler

import (
	"encoding/base64"
	"strconv"
)

// generatePageToken encodes the next offset. Returns nil on the last page.
func generatePageToken(offset int, hasMore bool) *string {
	if !hasMore {
		return nil
	}
	token := base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
	return &token
}

// parsePageToken decodes an offset. Empty, malformed and negative tokens
// all restart from the first page.
func parsePageToken(token string) int {
	if token == "" {
		return 0
	}
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// parsePageSize returns the requested size, or 0 to let the service apply
// its default.
func parsePageSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
