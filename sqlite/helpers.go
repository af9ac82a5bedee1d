package sqlite

import (
	"encoding/hex"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// likeEscaper escapes the LIKE wildcards so a prefix matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// prefixPattern returns a LIKE pattern matching strings that start with
// prefix. Use it with ESCAPE '\'.
func prefixPattern(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}
