package utils

import (
	"math/rand/v2"
	"regexp"
)

const (
	orderIDPrefix   = "ORD-"
	orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderIDLength   = 6
)

var orderIDPattern = regexp.MustCompile(`^ORD-[A-Z0-9]{6}$`)

// NewOrderID returns a short shareable order code (ORD-XXXXXX). It is not
// guaranteed unique; the bookings.order_id unique index is.
func NewOrderID() string {
	b := make([]byte, 0, len(orderIDPrefix)+orderIDLength)
	b = append(b, orderIDPrefix...)
	for i := 0; i < orderIDLength; i++ {
		b = append(b, orderIDAlphabet[rand.IntN(len(orderIDAlphabet))])
	}
	return string(b)
}

// IsOrderID checks the ORD-XXXXXX shape, case-sensitive.
func IsOrderID(s string) bool {
	return orderIDPattern.MatchString(s)
}
