package store

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewRef returns a reference id of the form PREFIX + n uppercase hex chars,
// e.g. NewRef("QS", 8) -> "QS3FA85F64". Matches the id formats used across
// the quoting surface: QS (session), Q (quote), P (plan), CUST (applicant).
func NewRef(prefix string, n int) string {
	u := uuid.New()
	h := hex.EncodeToString(u[:])
	if n > len(h) {
		n = len(h)
	}
	return prefix + strings.ToUpper(h[:n])
}
