// Package roomcode generates room and pairing codes. Codes are opaque to the
// core; the alphabet drops lookalike characters so codes survive being read
// aloud across the room.
package roomcode

import (
	"crypto/rand"
	"fmt"
)

const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// New returns a random code of length n.
func New(n int) (string, error) {
	// Rejection sampling keeps the distribution uniform over the alphabet.
	max := byte(255 - (256 % len(alphabet)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}

		for _, b := range buf {
			if b > max {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				return string(out), nil
			}
		}
	}

	return string(out), nil
}
