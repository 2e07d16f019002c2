package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded by [lo, hi].
func ParseQueryInt(r *http.Request, key string, fallback, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fieldError("invalid query parameter", key, "must be a whole number")
	}
	if value < lo || value > hi {
		return 0, fieldError("invalid query parameter", key, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return value, nil
}

// ParsePathID parses a positive integer route parameter.
func ParsePathID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, fieldError("invalid "+field, field, "must be a positive integer")
	}
	return id, nil
}

func fieldError(message, field, problem string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]string{field: problem})
}
