package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"dayplan/internal/model"
)

const statesDir = "states"

// Diskv keeps each user's state as a JSON file under BasePath/states.
type Diskv struct {
	d  *diskv.Diskv
	mu sync.Mutex
}

func NewDiskv(basePath string) (*Diskv, error) {
	if basePath == "" {
		return nil, errors.New("store: diskv needs a base path")
	}
	if err := os.MkdirAll(filepath.Join(basePath, ".tmp"), 0o755); err != nil {
		return nil, err
	}
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, ".tmp"),
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      1024 * 1024,
	})}, nil
}

// User ids are free text, so file names carry them base64 encoded.
func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{statesDir},
		FileName: base64.RawURLEncoding.EncodeToString([]byte(key)) + ".json",
	}
}

func pathToKey(pk *diskv.PathKey) string {
	if len(pk.Path) != 1 || pk.Path[0] != statesDir || !strings.HasSuffix(pk.FileName, ".json") {
		return ""
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(pk.FileName, ".json"))
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *Diskv) Load(_ context.Context, userID string) (model.State, error) {
	if err := checkUser(userID); err != nil {
		return model.State{}, err
	}
	b, err := s.d.Read(userID)
	if errors.Is(err, fs.ErrNotExist) {
		return model.State{}, ErrNotFound
	}
	if err != nil {
		return model.State{}, fmt.Errorf("store: load %q: %w", userID, err)
	}
	return decode(b)
}

func (s *Diskv) Save(_ context.Context, userID string, st model.State) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	b, err := encode(st)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.d.Write(userID, b); err != nil {
		return fmt.Errorf("store: save %q: %w", userID, err)
	}
	return nil
}

func (s *Diskv) Users(ctx context.Context) ([]string, error) {
	var out []string
	for key := range s.d.Keys(ctx.Done()) {
		if key != "" {
			out = append(out, key)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (s *Diskv) Close() error { return nil }
