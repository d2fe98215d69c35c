package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewResultID returns a time-ordered identifier: base36 epoch millis plus a random suffix.
func NewResultID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix
}
