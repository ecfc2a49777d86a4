package sui

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// SuiEd25519Path is the derivation path of the first Sui ed25519 account.
// All levels are hardened, as SLIP-0010 requires for ed25519.
var SuiEd25519Path = []uint32{44, 784, 0, 0, 0}

const hardenedOffset = 0x80000000

// mnemonicToSeed implements the BIP-39 seed function. Word list checksums
// are not verified; a wrong word yields a different, valid wallet.
func mnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return nil, fmt.Errorf("%w: mnemonic has %d words", ErrConfiguration, len(words))
	}
	phrase := norm.NFKD.String(strings.Join(words, " "))
	salt := norm.NFKD.String("mnemonic" + passphrase)
	return pbkdf2.Key([]byte(phrase), []byte(salt), 2048, 64, sha512.New), nil
}

// deriveEd25519Path walks a SLIP-0010 ed25519 path and returns the 32-byte
// private seed at its end.
func deriveEd25519Path(seed []byte, path []uint32) ([]byte, error) {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chain := sum[:32], sum[32:]

	for _, idx := range path {
		if idx >= hardenedOffset {
			return nil, fmt.Errorf("%w: path index %d out of range", ErrConfiguration, idx)
		}
		data := make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, idx+hardenedOffset)

		mac := hmac.New(sha512.New, chain)
		mac.Write(data)
		sum := mac.Sum(nil)
		key, chain = sum[:32], sum[32:]
	}
	return key, nil
}
