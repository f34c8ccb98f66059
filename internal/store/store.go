// Package store persists one State document per user.
//
// Every backend keeps the whole aggregate under the user's id and replaces
// it on save, so the last write wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	appLog "dayplan/internal/log"
	"dayplan/internal/model"
)

// ErrNotFound is returned by Load for a user without a saved state.
var ErrNotFound = errors.New("store: state not found")

// Store is the persistence contract of the planner.
type Store interface {
	Load(ctx context.Context, userID string) (model.State, error)
	Save(ctx context.Context, userID string, st model.State) error
	// Users lists every user with a saved state.
	Users(ctx context.Context) ([]string, error)
	Close() error
}

const (
	DriverDiskv  = "diskv"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the backend named by driver rooted at path.
func Open(driver, path string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case DriverDiskv, "":
		s, err = NewDiskv(path)
	case DriverSQLite:
		s, err = NewSQLite(path)
	case DriverMemory:
		s = NewMemory()
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	appLog.Info("store: opened", "driver", driver, "path", path)
	return s, nil
}

func decode(b []byte) (model.State, error) {
	var st model.State
	if err := json.Unmarshal(b, &st); err != nil {
		return model.State{}, fmt.Errorf("store: decode state: %w", err)
	}
	st.Normalize()
	return st, nil
}

func encode(st model.State) ([]byte, error) {
	st.Normalize()
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("store: encode state: %w", err)
	}
	return b, nil
}

func checkUser(userID string) error {
	if userID == "" {
		return errors.New("store: empty user id")
	}
	return nil
}
