package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/posguard/licadmin/internal/domain"
)

// FileStore keeps the token and user in a single JSON file, created with
// owner-only permissions.
type FileStore struct {
	path string
}

type fileCreds struct {
	Token string          `json:"token,omitempty"`
	User  json.RawMessage `json:"user,omitempty"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) SaveToken(token string) error {
	creds, _ := f.read()
	creds.Token = token
	return f.write(creds)
}

func (f *FileStore) LoadToken() (string, error) {
	creds, err := f.read()
	if err != nil {
		return "", err
	}
	return creds.Token, nil
}

func (f *FileStore) SaveUser(user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	creds, _ := f.read()
	creds.User = data
	return f.write(creds)
}

func (f *FileStore) LoadUser() (*domain.User, error) {
	creds, err := f.read()
	if err != nil {
		return nil, err
	}
	if len(creds.User) == 0 {
		return nil, nil
	}
	var user domain.User
	if err := json.Unmarshal(creds.User, &user); err != nil {
		return nil, fmt.Errorf("parse stored user: %w", err)
	}
	return &user, nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileStore) read() (fileCreds, error) {
	var creds fileCreds
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return creds, nil
		}
		return creds, err
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt file degrades to logged-out, not a hard failure.
		return fileCreds{}, nil
	}
	return creds, nil
}

func (f *FileStore) write(creds fileCreds) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}
