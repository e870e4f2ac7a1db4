package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// JobIDLength is the number of hex characters kept from the digest.
const JobIDLength = 12

const keySeparator = "\x1f"

// JobKey is the in-memory dedup key of a job. JobID(company, title, "") is a
// function of it, so equal keys always share a job_id.
func JobKey(company, title string) string {
	return strings.ToLower(company + keySeparator + title)
}

// JobID returns a deterministic 12 character fingerprint for a job. Inputs are
// lowercased and joined with a separator before hashing so ("ab", "c") and
// ("a", "bc") do not collide.
func JobID(company, title, location string) string {
	key := strings.ToLower(strings.Join([]string{company, title, location}, keySeparator))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:JobIDLength]
}
