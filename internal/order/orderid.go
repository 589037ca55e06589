package order

import (
	"crypto/rand"
	"strconv"
	"time"
)

// Order ids are human-legible: a fixed prefix, the creation time in unix
// milliseconds, and a short random suffix. They show up in support
// conversations and URLs, so no opaque UUIDs here.
const (
	orderIDPrefix    = "ORD"
	orderIDAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderIDSuffixLen = 5

	// maxIDAttempts bounds regenerate-and-retry when an insert hits the
	// primary key. A collision needs the same millisecond and the same
	// 36^5 suffix, so more than a couple of retries means something else
	// is wrong.
	maxIDAttempts = 3
)

// NewOrderID returns a fresh identifier, e.g. ORD-1735689600123-K7Q2M.
func NewOrderID() string {
	return orderIDPrefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + randomSuffix(orderIDSuffixLen)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// a time-derived suffix rather than returning an empty id
		ns := time.Now().UnixNano()
		for i := range buf {
			buf[i] = orderIDAlphabet[ns%int64(len(orderIDAlphabet))]
			ns /= int64(len(orderIDAlphabet))
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = orderIDAlphabet[int(buf[i])%len(orderIDAlphabet)]
	}
	return string(buf)
}
