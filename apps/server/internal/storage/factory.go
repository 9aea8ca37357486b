package storage

import (
	"fmt"
	"os"
	"strings"
)

const (
	StoreModeMemory = "memory"
	StoreModeDB     = "db"
	StoreModeLocal  = "local"
)

func storeModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_MODE")))
	switch raw {
	case "", StoreModeDB, "postgres", "postgresql":
		return StoreModeDB
	case StoreModeLocal, "sqlite":
		return StoreModeLocal
	case StoreModeMemory, "mem":
		return StoreModeMemory
	default:
		return raw
	}
}

// NewStoreFromEnv mirrors auth.NewServiceFromEnv's dual-backend split:
// STORAGE_MODE selects postgres (production default), sqlite (local/
// single-binary deployment), or an in-process memory store (tests).
func NewStoreFromEnv() (Store, string, error) {
	mode := storeModeFromEnv()

	switch mode {
	case StoreModeDB:
		store, err := NewPostgresStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	case StoreModeLocal:
		store, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	case StoreModeMemory:
		return NewMemoryStore(), mode, nil
	default:
		return nil, mode, fmt.Errorf("storage: invalid STORAGE_MODE %q (supported: %s, %s, %s)", mode, StoreModeMemory, StoreModeDB, StoreModeLocal)
	}
}
