// Package metadata attaches provenance blocks to saved table files and
// verifies them later.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// TagStart is the start of the provenance block.
	TagStart = "<!-- PROVENANCE_START"
	// TagEnd is the end of the provenance block.
	TagEnd = "PROVENANCE_END -->"
)

// Provenance verification errors.
var (
	ErrNoProvenanceBlock = errors.New("no provenance block found")
	ErrNoHashFound       = errors.New("no hash found in provenance")
	ErrHashMismatch      = errors.New("hash mismatch")
)

// Provenance records where a saved table came from.
type Provenance struct {
	FetchedAt time.Time
	Source    string
	Hash      string
}

// provenanceRegex matches the entire provenance block including tags.
var provenanceRegex = regexp.MustCompile(`(?s)<!--\s*PROVENANCE_START\s*\n(.*?)\n\s*PROVENANCE_END\s*-->`)

// Extract removes the provenance block from content and returns both the
// provenance and the cleaned content. The cleaned content is what gets
// hashed.
func Extract(content string) (*Provenance, string) {
	match := provenanceRegex.FindStringSubmatch(content)
	clean := provenanceRegex.ReplaceAllString(content, "")
	clean = strings.TrimRight(clean, "\n")

	if len(match) < 2 {
		return nil, clean
	}

	prov := &Provenance{}

	for _, line := range strings.Split(match[1], "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "SOURCE":
			prov.Source = val
		case "FETCHED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				prov.FetchedAt = t
			}
		case "HASH":
			prov.Hash = val
		}
	}

	return prov, clean
}

// CalculateHash computes the SHA-256 hash of the content excluding any
// provenance block.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign appends or replaces the provenance block with the given source, a
// fresh timestamp, and the hash of the clean content.
func Sign(content, source string) string {
	_, clean := Extract(content)

	hash := CalculateHash(clean)
	now := time.Now().UTC().Format(time.RFC3339)

	block := fmt.Sprintf("\n\n%s\nSOURCE: %s\nFETCHED_AT: %s\nHASH: %s\n%s",
		TagStart, source, now, hash, TagEnd)

	return clean + block
}

// Verify checks whether the content matches the hash in its provenance
// block.
func Verify(content string) (bool, error) {
	prov, clean := Extract(content)
	if prov == nil {
		return false, ErrNoProvenanceBlock
	}

	if prov.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != prov.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, prov.Hash, calculated)
	}

	return true, nil
}
