// Package cryptox wraps the primitives the store files are built on: AES-256
// in CBC mode with PKCS7 padding, and the two password hashes used across the
// format generations (plain SHA-256 for the oldest, Argon2id for the rest).
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of every derived key (AES-256).
	KeySize = 32
	// IVSize is the length of the per-file CBC initialization vector.
	IVSize = aes.BlockSize

	passwordSaltSize = 16
)

type argon2Params struct {
	time    uint32
	memory  uint32 // KiB
	threads uint8
}

// Argon2id cost. Five passes over ~1 GB with a single lane; files written with
// one set of parameters can only be opened with the same set, so these are
// fixed rather than configurable.
var argon = argon2Params{time: 5, memory: 1_000_000, threads: 1}

// HashPasswordSHA256 derives a key the way the oldest format does: an
// unsalted SHA-256 of the password.
func HashPasswordSHA256(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// HashPasswordArgon2 derives a 32-byte key from password with Argon2id.
//
// The salt is the text stored in the file header (unpadded standard base64,
// see GenerateSalt); it is decoded before hashing. A salt that is not valid
// base64 means the header is corrupted and is reported as an error.
func HashPasswordArgon2(salt, password string) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decode password salt: %w", err)
	}
	return argon2.IDKey([]byte(password), raw, argon.time, argon.memory, argon.threads, KeySize), nil
}

// GenerateSalt returns a fresh random password salt in its stored text form.
func GenerateSalt() string {
	return base64.RawStdEncoding.EncodeToString(common.GenerateRandByteArray(passwordSaltSize))
}

// GenerateIV returns a fresh random 16-byte IV.
func GenerateIV() []byte {
	return common.GenerateRandByteArray(IVSize)
}

// Encrypt pads plaintext with PKCS7 and encrypts it with AES-256-CBC.
//
// Parameters:
//   - plaintext: bytes to encrypt; may be empty.
//   - iv: the 16-byte initialization vector.
//   - key: the 32-byte key.
//
// Returns common.ErrEncrypt if the key or IV have the wrong length.
func Encrypt(plaintext, iv, key []byte) ([]byte, error) {
	mode, err := newCBC(iv, key, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncrypt, err)
	}

	buf := pkcs7Pad(plaintext, aes.BlockSize)
	mode.CryptBlocks(buf, buf)
	return buf, nil
}

// Decrypt reverses Encrypt.
//
// Any failure (wrong lengths, bad padding) is reported as common.ErrBadCrypt.
// A wrong key usually shows up as bad padding, but not always: the caller has
// to verify the result on its own (see the token check in package format).
func Decrypt(ciphertext, iv, key []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, common.ErrBadCrypt
	}

	mode, err := newCBC(iv, key, false)
	if err != nil {
		return nil, common.ErrBadCrypt
	}

	buf := bytes.Clone(ciphertext)
	mode.CryptBlocks(buf, buf)

	out, ok := pkcs7Unpad(buf, aes.BlockSize)
	if !ok {
		return nil, common.ErrBadCrypt
	}
	return out, nil
}

func newCBC(iv, key []byte, encrypt bool) (cipher.BlockMode, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length %d", len(key))
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("invalid iv length %d", len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	if encrypt {
		return cipher.NewCBCEncrypter(block, iv), nil
	}
	return cipher.NewCBCDecrypter(block, iv), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
