package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type Argon2Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB (e.g., 64*1024 = 64MB)
	Threads uint8  // parallelism
	KeyLen  uint32 // bytes
	SaltLen uint32 // bytes
}

var DefaultArgon2Params = Argon2Params{
	Time:    3,
	Memory:  64 * 1024, // 64 MiB
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

const algoArgon2id = "argon2id"

// PasswordServiceImpl hashes secrets into the PHC string form
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>, so the cost travels with the hash.
type PasswordServiceImpl struct {
	cur Argon2Params // current policy used for new hashes
}

func NewPasswordServiceArgon2id() *PasswordServiceImpl {
	return NewPasswordServiceWithParams(DefaultArgon2Params)
}

func NewPasswordServiceWithParams(p Argon2Params) *PasswordServiceImpl {
	return &PasswordServiceImpl{cur: p}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, p.cur.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, p.cur.Time, p.cur.Memory, p.cur.Threads, p.cur.KeyLen)
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algoArgon2id, argon2.Version,
		p.cur.Memory, p.cur.Time, p.cur.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (p *PasswordServiceImpl) Verify(password, encoded string) (rehashNeeded bool, ok bool) {
	stored, salt, key, err := decodeArgon2(encoded)
	if err != nil {
		return false, false
	}
	calculated := argon2.IDKey([]byte(password), salt, stored.Time, stored.Memory, stored.Threads, stored.KeyLen)
	ok = subtle.ConstantTimeCompare(calculated, key) == 1

	// Rehash if policy changed
	rehashNeeded = ok && (stored.Time != p.cur.Time ||
		stored.Memory != p.cur.Memory ||
		stored.Threads != p.cur.Threads ||
		stored.KeyLen != p.cur.KeyLen ||
		stored.SaltLen != p.cur.SaltLen)

	return rehashNeeded, ok
}

func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != algoArgon2id {
		return params, nil, nil, ErrInvalidHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, ErrInvalidHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return params, nil, nil, ErrInvalidHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, ErrInvalidHash
	}
	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(key))
	return params, salt, key, nil
}
