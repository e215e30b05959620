package sourcemap

import "strings"

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift        = 5
	vlqContinuation = 1 << vlqShift
	vlqMask         = vlqContinuation - 1
)

// EncodeVLQ encodes n as a base64 VLQ digit sequence.
// The sign is kept in the lowest bit of the first digit.
func EncodeVLQ(n int) string {
	v := n << 1
	if n < 0 {
		v = (-n << 1) | 1
	}

	var sb strings.Builder
	for {
		digit := v & vlqMask
		v >>= vlqShift
		if v > 0 {
			digit |= vlqContinuation
		}
		sb.WriteByte(base64Alphabet[digit])
		if v == 0 {
			return sb.String()
		}
	}
}
