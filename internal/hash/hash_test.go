package hash_test

import (
	"testing"

	"github.com/goliatone/go-licensekit/internal/hash"
)

func TestGitBlobMatchesGit(t *testing.T) {
	// Digests produced by `git hash-object` for the same inputs.
	cases := []struct {
		data string
		want string
	}{
		{data: "", want: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{data: "hello\n", want: "ce013625030ba8dba906f756967f9e9ca394464a"},
	}

	for _, tc := range cases {
		if got := hash.GitBlob([]byte(tc.data)); got != tc.want {
			t.Errorf("GitBlob(%q) = %s, want %s", tc.data, got, tc.want)
		}
	}
}

func TestFingerprintStable(t *testing.T) {
	a := hash.Fingerprint(map[string]string{"mit": "h1", "gpl-3.0": "h2"})
	b := hash.Fingerprint(map[string]string{"gpl-3.0": "h2", "mit": "h1"})
	if a != b {
		t.Errorf("fingerprint depends on insertion order: %s vs %s", a, b)
	}

	changed := hash.Fingerprint(map[string]string{"mit": "h1", "gpl-3.0": "h3"})
	if changed == a {
		t.Error("fingerprint did not change when a content hash changed")
	}

	if hash.Fingerprint(nil) != hash.Fingerprint(map[string]string{}) {
		t.Error("nil and empty listings should fingerprint identically")
	}
}
