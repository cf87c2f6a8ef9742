package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// LoadHashedTokenFile reads a file of bcrypt hashes (one per line, blank lines and lines
// starting with "#" ignored) and returns a TokenSet-compatible matcher: the caller supplies
// the candidate token and HashedTokenSet checks it against every stored hash. This is an
// alternative to the plaintext API_KEYS env var for deployments that do not want bearer
// secrets sitting in process environment; it is optional and unused unless API_KEYS_FILE is
// set.
type HashedTokenSet struct {
	hashes [][]byte
}

// LoadHashedTokenFile parses path into a HashedTokenSet.
func LoadHashedTokenFile(path string) (*HashedTokenSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open api keys file: %w", err)
	}
	defer f.Close()

	var hashes [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hashes = append(hashes, []byte(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read api keys file: %w", err)
	}
	return &HashedTokenSet{hashes: hashes}, nil
}

// DevMode reports whether no hashes were loaded (dev mode, matching TokenSet's semantics).
func (s *HashedTokenSet) DevMode() bool { return len(s.hashes) == 0 }

// Contains reports whether token matches any stored bcrypt hash.
func (s *HashedTokenSet) Contains(token string) bool {
	for _, h := range s.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(token)) == nil {
			return true
		}
	}
	return false
}

// HashToken produces a bcrypt hash of token suitable for storing in an API keys file.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
