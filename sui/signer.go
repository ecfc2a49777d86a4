package sui

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// SignatureScheme is the one-byte flag Sui prefixes to public keys and
// serialized signatures.
type SignatureScheme byte

const (
	SchemeEd25519   SignatureScheme = 0x00
	SchemeSecp256k1 SignatureScheme = 0x01
)

// transactionIntent is IntentScope::TransactionData, version 0, app Sui.
var transactionIntent = [3]byte{0, 0, 0}

// Signer authorizes transactions for one address. The admin wallet is
// built once at startup and passed to NewSubmitter.
type Signer interface {
	Address() Address
	// SignTransaction signs BCS TransactionData and returns the base64
	// serialized signature (flag || signature || public key).
	SignTransaction(txBytes []byte) (string, error)
}

// SigningDigest is the blake2b-256 hash of the transaction intent message.
func SigningDigest(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(transactionIntent)+len(txBytes))
	msg = append(msg, transactionIntent[:]...)
	msg = append(msg, txBytes...)
	return blake2b.Sum256(msg)
}

func deriveAddress(scheme SignatureScheme, pub []byte) Address {
	buf := make([]byte, 0, 1+len(pub))
	buf = append(buf, byte(scheme))
	buf = append(buf, pub...)
	return Address(blake2b.Sum256(buf))
}

func serializeSignature(scheme SignatureScheme, sig, pub []byte) string {
	buf := make([]byte, 0, 1+len(sig)+len(pub))
	buf = append(buf, byte(scheme))
	buf = append(buf, sig...)
	buf = append(buf, pub...)
	return base64.StdEncoding.EncodeToString(buf)
}

// Ed25519Signer is the default admin key type.
type Ed25519Signer struct {
	key  ed25519.PrivateKey
	addr Address
}

// NewEd25519Signer builds a signer from a 32-byte private seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", ErrConfiguration, ed25519.SeedSize, len(seed))
	}
	key := ed25519.NewKeyFromSeed(seed)
	pub := key.Public().(ed25519.PublicKey)
	return &Ed25519Signer{key: key, addr: deriveAddress(SchemeEd25519, pub)}, nil
}

// NewEd25519SignerFromMnemonic derives the first Sui account of a BIP-39
// mnemonic, m/44'/784'/0'/0'/0'.
func NewEd25519SignerFromMnemonic(mnemonic string) (*Ed25519Signer, error) {
	seed, err := mnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}
	key, err := deriveEd25519Path(seed, SuiEd25519Path)
	if err != nil {
		return nil, err
	}
	return NewEd25519Signer(key)
}

func (s *Ed25519Signer) Address() Address { return s.addr }

func (s *Ed25519Signer) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *Ed25519Signer) SignTransaction(txBytes []byte) (string, error) {
	digest := SigningDigest(txBytes)
	sig := ed25519.Sign(s.key, digest[:])
	return serializeSignature(SchemeEd25519, sig, s.PublicKey()), nil
}

// Secp256k1Signer signs with a secp256k1 key. Sui hashes the intent digest
// once more with SHA-256 before signing and expects a 64-byte r||s.
type Secp256k1Signer struct {
	key  *ecdsa.PrivateKey
	pub  []byte
	addr Address
}

// NewSecp256k1SignerFromHex parses a hex private key, with or without 0x.
func NewSecp256k1SignerFromHex(h string) (*Secp256k1Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(h), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: secp256k1 key: %v", ErrConfiguration, err)
	}
	pub := crypto.CompressPubkey(&key.PublicKey)
	return &Secp256k1Signer{key: key, pub: pub, addr: deriveAddress(SchemeSecp256k1, pub)}, nil
}

func (s *Secp256k1Signer) Address() Address { return s.addr }

func (s *Secp256k1Signer) SignTransaction(txBytes []byte) (string, error) {
	digest := SigningDigest(txBytes)
	hash := sha256.Sum256(digest[:])
	sig, err := crypto.Sign(hash[:], s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	// drop the recovery id
	return serializeSignature(SchemeSecp256k1, sig[:64], s.pub), nil
}

// NewSigner picks a signer from whichever key material is configured. A
// mnemonic always yields an ed25519 key; a hex private key is read with
// the given scheme ("ed25519" or "secp256k1").
func NewSigner(mnemonic, privateKeyHex, scheme string) (Signer, error) {
	switch {
	case mnemonic != "":
		return NewEd25519SignerFromMnemonic(mnemonic)
	case privateKeyHex == "":
		return nil, fmt.Errorf("%w: no admin wallet key configured", ErrConfiguration)
	}
	switch strings.ToLower(scheme) {
	case "", "ed25519":
		seed, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: ed25519 key is not hex", ErrConfiguration)
		}
		return NewEd25519Signer(seed)
	case "secp256k1":
		return NewSecp256k1SignerFromHex(privateKeyHex)
	default:
		return nil, fmt.Errorf("%w: unknown key scheme %q", ErrConfiguration, scheme)
	}
}
