package gateway

import (
	"encoding/json"
	"os"
	"sync"
)

// CredentialSet is the triple persisted after a successful code
// exchange. The json keys match the file layout written by earlier
// deployments of this service; realmId is the QuickBooks company
// identifier.
type CredentialSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	RealmID      string `json:"realmId"`
}

// Authorized reports whether the set can be used for API calls
func (c CredentialSet) Authorized() bool {
	return c.AccessToken != "" && c.RealmID != ""
}

// Store loads and saves a CredentialSet. Load returns a zero
// CredentialSet, not an error, when nothing has been saved yet.
type Store interface {
	Load() (CredentialSet, error)
	Save(CredentialSet) error
}

// FileStore keeps the CredentialSet in a single json file, written
// whole on every save. Concurrent writers race and the last write
// wins; no locking is attempted. Each Load re-reads the file so
// changes made by other processes are picked up without a restart.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at path; the file need not exist
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the backing file, returning a zero CredentialSet if it
// does not exist and a *PersistenceError if it cannot be read or
// parsed
func (f *FileStore) Load() (CredentialSet, error) {
	var c CredentialSet
	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, &PersistenceError{f.path, err}
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, &PersistenceError{f.path, err}
	}
	return c, nil
}

// Save overwrites the backing file with c
func (f *FileStore) Save(c CredentialSet) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return &PersistenceError{f.path, err}
	}
	if err := os.WriteFile(f.path, b, 0600); err != nil {
		return &PersistenceError{f.path, err}
	}
	return nil
}

// MemoryStore holds the CredentialSet in process memory only,
// forgetting it on restart. Useful for tests and embedders that do
// not want a file on disk.
type MemoryStore struct {
	mu sync.Mutex
	c  CredentialSet
}

// Load returns the current CredentialSet
func (m *MemoryStore) Load() (CredentialSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c, nil
}

// Save replaces the current CredentialSet
func (m *MemoryStore) Save(c CredentialSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c = c
	return nil
}
