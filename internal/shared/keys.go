package shared

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
)

// keySalt feeds the HMAC digest exchanged in place of the raw shared key. It
// must match on both sides of a transfer.
const keySalt = "292366AFF23AA43A31BBB6E48CAD2"

// HashKey digests a shared migration key for transport. The raw key never
// crosses the wire; both sides exchange and compare this digest instead.
func HashKey(key string) string {
	mac := hmac.New(md5.New, []byte(keySalt))
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyKey compares the digest presented by a client against the locally
// configured key, in constant time.
func VerifyKey(configured, presented string) bool {
	return hmac.Equal([]byte(HashKey(configured)), []byte(presented))
}
