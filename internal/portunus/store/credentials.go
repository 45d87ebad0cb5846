package store

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// CredentialStore is the allow-list of credentials, loaded once at startup.
type CredentialStore struct {
	ids []types.Credential
}

// LoadCredentials reads the credential list file from v.
func LoadCredentials(v Volume, name string) (*CredentialStore, error) {
	f, err := v.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCredentialList, name, err)
	}
	defer f.Close()

	ids, err := ParseCredentials(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCredentialList, name, err)
	}
	return &CredentialStore{ids: ids}, nil
}

// ParseCredentials parses credential list lines. Each line holds an id
// optionally followed by a comma and an annotation, which is ignored.
// Blank lines and lines with an empty id are skipped.
func ParseCredentials(r io.Reader) ([]types.Credential, error) {
	var ids []types.Credential
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		id, _, _ := strings.Cut(line, ",")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ids = append(ids, types.Credential(id))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// NewCredentialStore builds a store from ids already in memory.
func NewCredentialStore(ids []types.Credential) *CredentialStore {
	return &CredentialStore{ids: append([]types.Credential(nil), ids...)}
}

// IsAuthorized reports whether id is on the list. Matching is exact and
// case-sensitive.
func (s *CredentialStore) IsAuthorized(id types.Credential) bool {
	for _, c := range s.ids {
		if c == id {
			return true
		}
	}
	return false
}

// Len returns the number of listed credentials, duplicates included.
func (s *CredentialStore) Len() int { return len(s.ids) }

// IDs returns a copy of the list in file order.
func (s *CredentialStore) IDs() []types.Credential {
	out := make([]types.Credential, len(s.ids))
	copy(out, s.ids)
	return out
}
