package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

// InsecurePrefix marks hashes produced without a cryptographic primitive.
// Such hashes must never be mistaken for secure ones.
const InsecurePrefix = "insecure_hash_"

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	Secure() bool
}

// NewHasher returns a bcrypt hasher. Only when bcrypt fails its self-test
// does it fall back to the insecure hasher, and it says so loudly.
func NewHasher(cost int, logger *slog.Logger) Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h := &bcryptHasher{cost: cost, logger: logger}

	probe, err := h.Hash("self-test")
	if err == nil && h.Verify("self-test", probe) {
		return h
	}

	logger.Error("secure password hashing unavailable, falling back to INSECURE hashing",
		"error", err,
		"cost", cost,
	)
	return &insecureHasher{logger: logger}
}

type bcryptHasher struct {
	cost   int
	logger *slog.Logger
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify also accepts hashes written by earlier deployments: unsalted
// SHA-256 hex digests and prefixed insecure hashes. Callers upgrade them
// with NeedsRehash.
func (h *bcryptHasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, InsecurePrefix):
		h.logger.Warn("verifying password against an INSECURE legacy hash")
		return subtle.ConstantTimeCompare([]byte(insecureHash(password)), []byte(hash)) == 1
	case isSHA256Hex(hash):
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) == 1
	default:
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
}

func (h *bcryptHasher) Secure() bool { return true }

type insecureHasher struct {
	logger *slog.Logger
}

func (h *insecureHasher) Hash(password string) (string, error) {
	h.logger.Error("storing password with INSECURE non-cryptographic hash")
	return insecureHash(password), nil
}

func (h *insecureHasher) Verify(password, hash string) bool {
	h.logger.Error("verifying password with INSECURE non-cryptographic hash")
	return subtle.ConstantTimeCompare([]byte(insecureHash(password)), []byte(hash)) == 1
}

func (h *insecureHasher) Secure() bool { return false }

// NeedsRehash reports whether hash should be replaced by one from h.
func NeedsRehash(h Hasher, hash string) bool {
	if !h.Secure() {
		return false
	}
	return strings.HasPrefix(hash, InsecurePrefix) || isSHA256Hex(hash)
}

// insecureHash is a 32-bit string hash over UTF-16 code units. It exists
// only so credentials keep working where no secure primitive is available.
func insecureHash(password string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(password)) {
		hash = (hash << 5) - hash + int32(unit)
	}
	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return InsecurePrefix + strconv.FormatInt(abs, 16)
}

func isSHA256Hex(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
