package sui

import (
	"encoding/hex"
	"strings"
)

// AddressLength is the size of Sui addresses and object ids.
const AddressLength = 32

// Address is a Sui account address or object id.
type Address [AddressLength]byte

// ClockObjectID is the shared system clock, 0x6.
var ClockObjectID = Address{31: 0x6}

// ParseAddress accepts a 0x-prefixed hex string of up to 64 digits. Short
// forms such as "0x6" are left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	var a Address
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if h == "" || len(h) > AddressLength*2 {
		return a, validationErr("malformed address %q", s)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return a, validationErr("malformed address %q", s)
	}
	copy(a[AddressLength-len(b):], b)
	return a, nil
}

// String returns the long 0x-prefixed form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}
