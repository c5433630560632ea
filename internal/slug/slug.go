// Package slug derives human-readable identifiers from entity names:
// URL-safe unique slugs for organizations and date-stamped business codes
// for data records.
package slug

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate lower-cases name, collapses everything outside [a-z0-9] into
// single hyphens, trims leading/trailing hyphens, and appends -1, -2, ...
// until the result is absent from existing.
func Generate(name string, existing []string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = nonAlphanumeric.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	candidate := base
	counter := 1
	for lo.Contains(existing, candidate) {
		candidate = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
	return candidate
}

const (
	orderPrefix    = "ORD"
	randomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	randomLength   = 5
)

// OrderCode formats a business code as ORD-DDMMYY-INITIALS-RANDOM5 where
// INITIALS come from the organization name and RANDOM5 is drawn uniformly
// from [A-Z0-9]. The random suffix is not checked for collisions; the space
// (~1.6M per org per day) is treated as large enough for the expected volume.
func OrderCode(organizationName string) string {
	now := time.Now()
	datePart := now.Format("020106")
	return fmt.Sprintf("%s-%s-%s-%s", orderPrefix, datePart, Initials(organizationName), randomCode(randomLength))
}

// Initials returns the upper-cased first letters of up to the first three
// words of name.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 3 {
			break
		}
		b.WriteString(string([]rune(word)[0]))
	}
	return strings.ToUpper(b.String())
}

func randomCode(length int) string {
	max := big.NewInt(int64(len(randomAlphabet)))
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; there is no reasonable fallback.
			panic(fmt.Sprintf("slug: read random: %v", err))
		}
		b.WriteByte(randomAlphabet[n.Int64()])
	}
	return b.String()
}
