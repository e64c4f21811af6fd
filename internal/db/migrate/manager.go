package dbmigrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/roivaz/pr-dupcheck/internal/db/migrations"
)

// Manager applies and rolls back the archive schema. Several CI jobs may
// start at once, so changes run under the migrator's table lock.
type Manager struct {
	migrator *migrate.Migrator
}

// NewManager reads migrations from dir, or from the migrations compiled into
// the binary when dir is empty.
func NewManager(db *bun.DB, dir string) (*Manager, error) {
	if dir == "" {
		return NewManagerWithFS(db, migrations.FS)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations dir: %w", err)
	}
	return NewManagerWithFS(db, os.DirFS(abs))
}

func NewManagerWithFS(db *bun.DB, fsys fs.FS) (*Manager, error) {
	if db == nil {
		return nil, errors.New("archive database is required")
	}
	set := migrate.NewMigrations()
	if err := set.Discover(fsys); err != nil {
		return nil, fmt.Errorf("discover archive migrations: %w", err)
	}
	return &Manager{migrator: migrate.NewMigrator(db, set)}, nil
}

// Init creates the bookkeeping tables. It is idempotent.
func (m *Manager) Init(ctx context.Context) error {
	if err := m.migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migration tables: %w", err)
	}
	return nil
}

func (m *Manager) Status(ctx context.Context) (migrate.MigrationSlice, error) {
	return m.migrator.MigrationsWithStatus(ctx)
}

// Pending lists the migrations not yet applied, oldest first.
func (m *Manager) Pending(ctx context.Context) ([]string, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch migration status: %w", err)
	}
	var names []string
	for _, mig := range status.Unapplied() {
		names = append(names, migrationName(mig))
	}
	return names, nil
}

// Up applies every pending migration and returns their names.
func (m *Manager) Up(ctx context.Context) ([]string, error) {
	var applied []string
	err := m.locked(ctx, func() error {
		group, err := m.migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		applied = groupNames(group)
		return nil
	})
	return applied, err
}

// Rollback undoes the last groups migrations; groups <= 0 undoes them all.
// It returns the names of the rolled back migrations, newest first.
func (m *Manager) Rollback(ctx context.Context, groups int) ([]string, error) {
	var rolledBack []string
	err := m.locked(ctx, func() error {
		for i := 0; groups <= 0 || i < groups; i++ {
			group, err := m.migrator.Rollback(ctx)
			if err != nil {
				return fmt.Errorf("roll back migrations: %w", err)
			}
			if group == nil || group.IsZero() {
				return nil
			}
			rolledBack = append(rolledBack, groupNames(group)...)
		}
		return nil
	})
	return rolledBack, err
}

func (m *Manager) locked(ctx context.Context, fn func() error) error {
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	defer func() { _ = m.migrator.Unlock(ctx) }()
	return fn()
}

func groupNames(group *migrate.MigrationGroup) []string {
	if group == nil {
		return nil
	}
	names := make([]string, 0, len(group.Migrations))
	for _, mig := range group.Migrations {
		names = append(names, migrationName(mig))
	}
	return names
}

func migrationName(mig migrate.Migration) string {
	if mig.Comment == "" {
		return mig.Name
	}
	return mig.Name + "_" + mig.Comment
}
