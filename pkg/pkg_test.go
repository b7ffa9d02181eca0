package pkg

import (
	"path/filepath"
	"regexp"
	"testing"
)

// TestIdentity verifies the product constants and the embedded version.
func TestIdentity(t *testing.T) {
	if Name != "complexpr" {
		t.Errorf("Name = %q", Name)
	}

	if Description == "" {
		t.Error("Description is empty")
	}

	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version) {
		t.Errorf("Version = %q, want semantic version", Version)
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] defines neither name nor email", i)
		}
	}
}

// TestDirs verifies that both user directories end with the prefix.
func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%s dir %q does not end with %q", name, dir, Prefix())
		}
	}
}
