package impl

import (
	"strings"
	"testing"
)

var fastArgon2 = Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestPasswordHashAndVerify(t *testing.T) {
	ps := NewPasswordServiceWithParams(fastArgon2)

	encoded, err := ps.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	if strings.Contains(encoded, "correct horse") {
		t.Fatalf("hash leaks the plaintext")
	}

	rehash, ok := ps.Verify("correct horse", encoded)
	if !ok || rehash {
		t.Fatalf("expected ok without rehash, got ok=%v rehash=%v", ok, rehash)
	}
	if _, ok := ps.Verify("wrong horse", encoded); ok {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestPasswordHashIsSalted(t *testing.T) {
	ps := NewPasswordServiceWithParams(fastArgon2)
	a, _ := ps.Hash("123456")
	b, _ := ps.Hash("123456")
	if a == b {
		t.Fatalf("expected distinct hashes for the same input")
	}
}

func TestPasswordVerifyRequestsRehashOnPolicyChange(t *testing.T) {
	old := NewPasswordServiceWithParams(fastArgon2)
	encoded, err := old.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	stronger := fastArgon2
	stronger.Time = 2
	rehash, ok := NewPasswordServiceWithParams(stronger).Verify("s3cret-pass", encoded)
	if !ok || !rehash {
		t.Fatalf("expected ok with rehash, got ok=%v rehash=%v", ok, rehash)
	}
}

func TestPasswordVerifyRejectsMalformed(t *testing.T) {
	ps := NewPasswordServiceWithParams(fastArgon2)
	for _, encoded := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$AA$AA", "$argon2id$v=19$m=x$AA$AA"} {
		if _, ok := ps.Verify("anything", encoded); ok {
			t.Fatalf("expected %q to be rejected", encoded)
		}
	}
}

func TestPasswordHashRejectsEmpty(t *testing.T) {
	if _, err := NewPasswordServiceWithParams(fastArgon2).Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}
