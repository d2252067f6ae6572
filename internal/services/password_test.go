package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashers(t *testing.T) {
	hashers := map[string]PasswordHasher{
		"argon2id": Argon2idHasher{Params: &argon2id.Params{
			Memory:      8 * 1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		}},
		"bcrypt": BcryptHasher{Cost: bcrypt.MinCost},
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct horse")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if strings.Contains(hash, "correct horse") {
				t.Fatal("hash contains the raw password")
			}

			ok, err := h.Verify("correct horse", hash)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if !ok {
				t.Error("Verify: got false for the right password")
			}

			ok, err = h.Verify("battery staple", hash)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if ok {
				t.Error("Verify: got true for a wrong password")
			}

			again, err := h.Hash("correct horse")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if again == hash {
				t.Error("two hashes of the same password are equal, salt is missing")
			}
		})
	}
}

func TestNewPasswordHasher(t *testing.T) {
	if _, err := NewPasswordHasher("argon2id"); err != nil {
		t.Errorf("argon2id: %v", err)
	}
	if _, err := NewPasswordHasher("bcrypt"); err != nil {
		t.Errorf("bcrypt: %v", err)
	}
	if _, err := NewPasswordHasher("md5"); !errors.Is(err, ErrUnknownHasher) {
		t.Errorf("md5: got %v, want ErrUnknownHasher", err)
	}
}
