package poker

import "crypto/rand"

// joinCodeAlphabet omits characters that are easy to misread when a code
// is shared verbally or on a screen (I, O, 0, 1).
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const joinCodeLength = 6

func newJoinCode() string {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = joinCodeAlphabet[int(buf[i])%len(joinCodeAlphabet)]
	}
	return string(buf)
}
