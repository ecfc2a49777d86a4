package sui

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

const testMnemonic = "film crazy soon outside stand loop subway crumble thrive popular green nuclear struggle pistol arm wife phrase warfare march wheat nephew ask sunny firm"

func TestEd25519SignerSignature(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	s, err := NewEd25519Signer(seed)
	if err != nil {
		t.Fatal(err)
	}
	txBytes := []byte("transaction bytes")
	encoded, err := s.SignTransaction(txBytes)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize {
		t.Fatalf("serialized signature has %d bytes", len(raw))
	}
	if raw[0] != byte(SchemeEd25519) {
		t.Errorf("flag = %#x", raw[0])
	}
	sig, pub := raw[1:65], raw[65:]
	if !bytes.Equal(pub, s.PublicKey()) {
		t.Error("embedded public key does not match signer")
	}
	digest := SigningDigest(txBytes)
	if !ed25519.Verify(pub, digest[:], sig) {
		t.Error("signature does not verify over the intent digest")
	}
}

func TestSigningDigestIncludesIntent(t *testing.T) {
	tx := []byte{1, 2, 3}
	want := blake2b.Sum256([]byte{0, 0, 0, 1, 2, 3})
	if got := SigningDigest(tx); got != want {
		t.Fatalf("digest = %x, want %x", got, want)
	}
}

func TestEd25519Address(t *testing.T) {
	s, err := NewEd25519Signer(bytes.Repeat([]byte{1}, 32))
	if err != nil {
		t.Fatal(err)
	}
	want := blake2b.Sum256(append([]byte{0}, s.PublicKey()...))
	if s.Address() != Address(want) {
		t.Errorf("address = %s", s.Address())
	}
}

func TestMnemonicDerivationIsDeterministic(t *testing.T) {
	a, err := NewEd25519SignerFromMnemonic(testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEd25519SignerFromMnemonic("  " + testMnemonic + "\n")
	if err != nil {
		t.Fatal(err)
	}
	const wantAddr = "0xa2d14fad60c56049ecf75246a481934691214ce413e6a8ae2fe6834c173a6133"
	if got := a.Address().String(); got != wantAddr {
		t.Errorf("address = %s, want %s", got, wantAddr)
	}
	if a.Address() != b.Address() {
		t.Error("whitespace changed the derived address")
	}

	seed, _ := mnemonicToSeed(testMnemonic, "")
	other, err := deriveEd25519Path(seed, []uint32{44, 784, 1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	first, _ := deriveEd25519Path(seed, SuiEd25519Path)
	if bytes.Equal(first, other) {
		t.Error("different accounts derived the same key")
	}
}

func TestMnemonicWordCount(t *testing.T) {
	_, err := NewEd25519SignerFromMnemonic("film crazy soon")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestSecp256k1Signer(t *testing.T) {
	const key = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	s, err := NewSecp256k1SignerFromHex("0x" + key)
	if err != nil {
		t.Fatal(err)
	}
	txBytes := []byte("secp tx")
	encoded, err := s.SignTransaction(txBytes)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := base64.StdEncoding.DecodeString(encoded)
	if len(raw) != 1+64+33 {
		t.Fatalf("serialized signature has %d bytes", len(raw))
	}
	if raw[0] != byte(SchemeSecp256k1) {
		t.Errorf("flag = %#x", raw[0])
	}
	digest := SigningDigest(txBytes)
	hash := sha256.Sum256(digest[:])
	if !crypto.VerifySignature(raw[65:], hash[:], raw[1:65]) {
		t.Error("signature does not verify")
	}
	want := blake2b.Sum256(append([]byte{1}, raw[65:]...))
	if s.Address() != Address(want) {
		t.Errorf("address = %s", s.Address())
	}
}

func TestNewSigner(t *testing.T) {
	if _, err := NewSigner("", "", ""); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty key material: err = %v", err)
	}
	if _, err := NewSigner("", "abcd", "rsa"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown scheme: err = %v", err)
	}
	if _, err := NewSigner("", "xyz", "ed25519"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("non-hex key: err = %v", err)
	}
	s, err := NewSigner("", "0x"+string(bytes.Repeat([]byte("ab"), 32)), "")
	if err != nil {
		t.Fatalf("hex ed25519 key: %v", err)
	}
	if _, ok := s.(*Ed25519Signer); !ok {
		t.Errorf("signer type = %T", s)
	}
	s, err = NewSigner(testMnemonic, "ignored", "secp256k1")
	if err != nil {
		t.Fatalf("mnemonic: %v", err)
	}
	if _, ok := s.(*Ed25519Signer); !ok {
		t.Errorf("mnemonic signer type = %T", s)
	}
}
