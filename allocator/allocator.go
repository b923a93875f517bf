// Package allocator derives human-readable primary keys of the form
// <PREFIX><N> from the keys already present in a table.
package allocator

import (
	"strconv"
	"strings"

	"github.com/amorty/cafe-admin/schema"
)

// Allocate returns the next key for kind given the keys currently in its table.
// Callers must hold the table's write scope (see store.Create) so that two
// concurrent saves cannot compute the same key.
func Allocate(kind *schema.Kind, existing []string) string {
	return Next(kind.Prefix, existing)
}

// Next returns prefix followed by one more than the largest numeric suffix
// among keys starting with prefix. Keys whose suffix is not purely numeric
// are ignored.
func Next(prefix string, existing []string) string {
	var max uint64
	for _, key := range existing {
		n, ok := suffix(prefix, key)
		if ok && n > max {
			max = n
		}
	}
	return prefix + strconv.FormatUint(max+1, 10)
}

func suffix(prefix, key string) (uint64, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	rest := key[len(prefix):]
	if rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
