package session

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

const sessionPrefix = "sess"

// makeSessionKey generates the storage key for a session id.
// The id itself is never stored; only its 64-bit BLAKE2b digest.
// Format: prefix:hexdigest
func makeSessionKey(id string) []byte {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(id))
	sum := h.Sum(nil)

	buf := make([]byte, 0, len(sessionPrefix)+1+hex.EncodedLen(len(sum)))
	buf = append(buf, sessionPrefix...)
	buf = append(buf, ':')
	return hex.AppendEncode(buf, sum)
}
