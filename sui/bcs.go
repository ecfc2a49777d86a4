package sui

import (
	"bytes"
	"encoding/binary"
)

// bcsWriter serializes values in Binary Canonical Serialization, the
// layout Sui uses for TransactionData. Only the shapes a check-in
// transaction needs are covered.
type bcsWriter struct {
	buf bytes.Buffer
}

func (w *bcsWriter) Bytes() []byte { return w.buf.Bytes() }

// uleb128 writes a length or enum variant index.
func (w *bcsWriter) uleb128(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

func (w *bcsWriter) u8(v uint8) { w.buf.WriteByte(v) }

func (w *bcsWriter) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *bcsWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *bcsWriter) bool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

// bytes writes a length-prefixed byte vector.
func (w *bcsWriter) bytes(b []byte) {
	w.uleb128(uint64(len(b)))
	w.buf.Write(b)
}

func (w *bcsWriter) str(s string) { w.bytes([]byte(s)) }

// fixed writes b with no length prefix, as used for addresses.
func (w *bcsWriter) fixed(b []byte) { w.buf.Write(b) }

func (w *bcsWriter) address(a Address) { w.fixed(a[:]) }

// Pure argument encoders. Each returns the BCS bytes of a single Move value.

func pureU8(v uint8) []byte {
	return []byte{v}
}

func pureU64(v uint64) []byte {
	var w bcsWriter
	w.u64(v)
	return w.Bytes()
}

func pureBytes(b []byte) []byte {
	var w bcsWriter
	w.bytes(b)
	return w.Bytes()
}

func pureString(s string) []byte {
	return pureBytes([]byte(s))
}

func pureAddress(a Address) []byte {
	return append([]byte(nil), a[:]...)
}
