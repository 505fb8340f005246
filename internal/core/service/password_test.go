package service

import (
	"strings"
	"testing"
)

func TestStorageDigest_KnownVector(t *testing.T) {
	// sha1("password") = 5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8
	// sha256 of that hex string:
	want := "0d287772dfced30917b9dbb547a3dfc2b8ddfa82ef867191f73c64f4770face9"
	if got := StorageDigest("password"); got != want {
		t.Fatalf("StorageDigest(password) = %s, want %s", got, want)
	}
}

func TestLoginDigest_MatchesStorageDigest(t *testing.T) {
	// Clients submit the sha1 hex of the password, so hashing that once
	// must land on the stored digest.
	supplied := sha1Hex("hunter2")
	if LoginDigest(supplied) != StorageDigest("hunter2") {
		t.Fatalf("login digest of sha1 hex does not match storage digest")
	}
}

func TestLoginDigest_KnownVector(t *testing.T) {
	want := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"
	if got := LoginDigest("password"); got != want {
		t.Fatalf("LoginDigest(password) = %s, want %s", got, want)
	}
}

func TestRandomPassword(t *testing.T) {
	pw, err := RandomPassword(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pw) != 8 {
		t.Fatalf("expected length 8, got %d", len(pw))
	}
	for _, r := range pw {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("character %q outside alphabet", r)
		}
	}

	other, err := RandomPassword(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pw == other {
		t.Fatalf("two generated passwords collided: %s", pw)
	}
}
