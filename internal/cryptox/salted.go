package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/lockbox/internal/common"
)

// Bounds on the salt prepended to every protected value. The length minus
// SaltMinLength fits in four bits, which is how it is recovered on decryption.
const (
	SaltMinLength = 17
	SaltMaxLength = 32
)

// EncryptSalted prepends a random salt to plaintext and encrypts the result.
//
// The salt length is picked uniformly from [max(17, 32-len(plaintext)), 32],
// so the encrypted payload is never shorter than 32 bytes and short secrets
// cannot be told apart by ciphertext length.
func EncryptSalted(plaintext, iv, key []byte) ([]byte, error) {
	minLen := max(SaltMaxLength-len(plaintext), SaltMinLength)

	n, err := rand.Int(rand.Reader, big.NewInt(int64(SaltMaxLength-minLen+1)))
	if err != nil {
		return nil, fmt.Errorf("%w: salt length: %v", common.ErrEncrypt, err)
	}

	salt := common.GenerateRandByteArray(minLen + int(n.Int64()))
	return EncryptWithSalt(plaintext, salt, iv, key)
}

// EncryptWithSalt encrypts salt ++ plaintext, first storing len(salt)-17 in
// the low four bits of the salt's first byte. The caller's salt is not
// modified.
//
// The salt length must lie in [SaltMinLength, SaltMaxLength]; anything else
// is a programming error and panics.
func EncryptWithSalt(plaintext, salt, iv, key []byte) ([]byte, error) {
	if len(salt) < SaltMinLength || len(salt) > SaltMaxLength {
		panic(fmt.Sprintf("cryptox: salt length %d out of range", len(salt)))
	}

	full := make([]byte, 0, len(salt)+len(plaintext))
	full = append(full, salt...)
	full[0] = full[0]&0xF0 | byte(len(salt)-SaltMinLength)
	full = append(full, plaintext...)
	defer common.WipeByteArray(full)

	return Encrypt(full, iv, key)
}

// DecryptSalted reverses EncryptSalted and strips the salt.
//
// A payload too short to hold the salt it announces can only come from a
// wrong key or a corrupted file, and is reported as common.ErrBadCrypt.
func DecryptSalted(ciphertext, iv, key []byte) ([]byte, error) {
	full, err := Decrypt(ciphertext, iv, key)
	if err != nil {
		return nil, err
	}
	if len(full) == 0 {
		return nil, common.ErrBadCrypt
	}

	saltLen := int(full[0]&0x0F) + SaltMinLength
	if saltLen > len(full) {
		return nil, common.ErrBadCrypt
	}
	return full[saltLen:], nil
}
