// Package refnum generates the human-legible reference identifiers
// assigned to invoices, quotes, orders, payments and budgets at first persist.
// Uniqueness is ultimately enforced by database constraints; writers retry
// with a fresh suffix on the (rare) collision.
package refnum

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// suffixBytes gives 96 bits of entropy, 24 uppercase hex characters.
const suffixBytes = 12

func suffix() string {
	b := make([]byte, suffixBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(fmt.Sprintf("refnum: reading random bytes: %v", err))
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

// Invoice returns an invoice number of the form SRV-{year}-{month:02d}-{suffix}.
func Invoice(now time.Time) string {
	return fmt.Sprintf("SRV-%d-%02d-%s", now.Year(), int(now.Month()), suffix())
}

// Quote returns a quote number of the form QTE-{suffix}.
func Quote() string {
	return "QTE-" + suffix()
}

// Order returns an order number of the form ORD-{suffix}.
func Order() string {
	return "ORD-" + suffix()
}

// Payment returns a payment reference of the form PAY-{suffix}.
func Payment() string {
	return "PAY-" + suffix()
}

// Budget returns a budget reference of the form EST-{suffix}.
func Budget() string {
	return "EST-" + suffix()
}
