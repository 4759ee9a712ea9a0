package niva

import "strconv"

// ComputeChecksum XORs every byte of payload. The empty payload is 0.
func ComputeChecksum(payload string) byte {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return ck
}

// HasMatchingChecksum recomputes the checksum of the text between '[' and
// ']' and compares it with the two hex digits after ']'. Either case of hex
// digit is accepted.
//
// s must be well-formed; anything else reports false.
func HasMatchingChecksum(s string) bool {
	parts, ok := splitReading(s)
	if !ok {
		return false
	}
	want, err := strconv.ParseUint(parts.checksum, 16, 8)
	if err != nil {
		return false
	}
	return ComputeChecksum(parts.payload) == byte(want)
}
