package testsupport

import (
	"testing"

	"cddarip/internal/config"
	"cddarip/internal/library"
)

// MustOpenLibrary opens the catalog configured in cfg and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
