package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher produces salted one-way hashes and checks candidates against them.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// NewHasher returns the hasher registered under name.
func NewHasher(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", HasherBcrypt:
		return NewBcryptHasher(DefaultBcryptCost), nil
	case HasherArgon2id:
		return NewArgon2idHasher(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// DefaultBcryptCost matches the cost existing password rows were hashed with.
const DefaultBcryptCost = 10

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Argon2idHasher stores hashes in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type Argon2idHasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{time: 1, memory: 64 * 1024, threads: 4, keyLen: 32, saltLen: 16}
}

var errMalformedHash = errors.New("malformed argon2id hash")

func (h *Argon2idHasher) Hash(plain string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plain), salt, h.time, h.memory, h.threads, h.keyLen)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads, enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

func (h *Argon2idHasher) Compare(hash, plain string) bool {
	p, salt, key, err := decodeArgon2id(hash)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(plain), salt, p.time, p.memory, p.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeArgon2id(hash string) (*Argon2idHasher, []byte, []byte, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, nil, errMalformedHash
	}

	p := &Argon2idHasher{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, nil, nil, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, nil, errMalformedHash
	}
	return p, salt, key, nil
}
