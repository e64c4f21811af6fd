package dbmigrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// EnsureCurrent verifies the archive schema before a run writes to it. With
// autoMigrate pending migrations are applied, otherwise they are reported.
func EnsureCurrent(ctx context.Context, bunDB *bun.DB, dir string, autoMigrate bool) error {
	manager, err := NewManager(bunDB, dir)
	if err != nil {
		return err
	}
	if err := manager.Init(ctx); err != nil {
		return err
	}
	pending, err := manager.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	if !autoMigrate {
		return pendingError(pending)
	}
	_, err = manager.Up(ctx)
	return err
}

func pendingError(pending []string) error {
	return fmt.Errorf("archive schema is behind, pending migrations: %s (run 'dbctl migrate' or set AUTO_MIGRATE=true)",
		strings.Join(pending, ", "))
}
