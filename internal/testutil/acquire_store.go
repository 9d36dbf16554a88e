package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/turnstile/credstore"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore opens a fresh sqlite credential store under a temporary
// directory. The returned func closes the store and removes the directory.
func AcquireStore(ctx context.Context, t TestLog, name string) (credstore.Store, func()) {
	dir, err := os.MkdirTemp("", "turnstile-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := credstore.Open(ctx, filepath.Join(dir, name, "users.db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
