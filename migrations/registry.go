// Package migrations exposes the embedded schema migrations per dialect and
// routes them into a host migrator.
package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	resource "github.com/goliatone/go-resource"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// embeddedRoot is where the go:embed tree keeps the SQL files. The postgres
// scripts live at the root of that tree; sqlite overrides sit in a subtree.
const embeddedRoot = "data/sql/migrations"

// dialectSubtrees maps each supported dialect to its directory under
// embeddedRoot. Empty means the root itself.
var dialectSubtrees = map[string]string{
	DialectPostgres: "",
	DialectSQLite:   "sqlite",
}

// FilesystemSpec is one dialect's migration filesystem.
type FilesystemSpec struct {
	Dialect string
	Path    string
	FS      fs.FS
}

// Registration records what was handed to the migrator.
type Registration struct {
	SourceLabel       string
	ValidationTargets []string
	Filesystems       []FilesystemSpec
}

// RegisterFunc receives one dialect's filesystem. Hosts typically call
// their persistence client's RegisterSQLMigrations here.
type RegisterFunc func(ctx context.Context, dialect string, sourceLabel string, fsys fs.FS) error

type Option func(*Registration)

func WithDialectSourceLabel(label string) Option {
	return func(r *Registration) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			r.SourceLabel = trimmed
		}
	}
}

// WithValidationTargets restricts registration to the named dialects. The
// default registers every embedded dialect.
func WithValidationTargets(targets ...string) Option {
	return func(r *Registration) {
		if normalized := normalizeDialects(targets); len(normalized) > 0 {
			r.ValidationTargets = normalized
		}
	}
}

// WithFilesystems replaces the embedded filesystems, for hosts that ship
// their own schema tree.
func WithFilesystems(filesystems ...FilesystemSpec) Option {
	return func(r *Registration) {
		kept := filesystems[:0:0]
		for _, spec := range filesystems {
			spec.Dialect = strings.ToLower(strings.TrimSpace(spec.Dialect))
			if spec.Dialect == "" || spec.FS == nil {
				continue
			}
			kept = append(kept, spec)
		}
		if len(kept) > 0 {
			r.Filesystems = kept
		}
	}
}

// Filesystems resolves the per-dialect migration filesystems from the
// embedded tree, or from the first non-nil source override.
func Filesystems(sources ...fs.FS) ([]FilesystemSpec, error) {
	root := fs.FS(resource.GetCoreMigrationsFS())
	if len(sources) > 0 && sources[0] != nil {
		root = sources[0]
	}

	specs := make([]FilesystemSpec, 0, len(dialectSubtrees))
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		spec, err := dialectFilesystem(root, dialect)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func dialectFilesystem(root fs.FS, dialect string) (FilesystemSpec, error) {
	dir := embeddedRoot
	if subtree := dialectSubtrees[dialect]; subtree != "" {
		dir = dir + "/" + subtree
	}
	fsys, err := fs.Sub(root, dir)
	if err != nil {
		return FilesystemSpec{}, fmt.Errorf("migrations: resolve %s filesystem at %q: %w", dialect, dir, err)
	}
	scripts, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return FilesystemSpec{}, fmt.Errorf("migrations: scan %s filesystem at %q: %w", dialect, dir, err)
	}
	if len(scripts) == 0 {
		return FilesystemSpec{}, fmt.Errorf("migrations: no *.up.sql files for %s at %q", dialect, dir)
	}
	return FilesystemSpec{Dialect: dialect, Path: dir, FS: fsys}, nil
}

// Register hands each targeted dialect's filesystem to registerFn.
func Register(ctx context.Context, registerFn RegisterFunc, opts ...Option) (Registration, error) {
	filesystems, err := Filesystems()
	if err != nil {
		return Registration{}, err
	}

	reg := Registration{
		SourceLabel:       "go-resource",
		ValidationTargets: []string{DialectPostgres, DialectSQLite},
		Filesystems:       filesystems,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}
	if err := reg.validate(registerFn); err != nil {
		return reg, err
	}

	for _, spec := range reg.Filesystems {
		if !slices.Contains(reg.ValidationTargets, spec.Dialect) {
			continue
		}
		if err := registerFn(ctx, spec.Dialect, reg.SourceLabel, spec.FS); err != nil {
			return reg, fmt.Errorf("migrations: register %s (%s): %w", spec.Dialect, spec.Path, err)
		}
	}
	return reg, nil
}

func (r Registration) validate(registerFn RegisterFunc) error {
	if registerFn == nil {
		return fmt.Errorf("migrations: register function is required")
	}
	if strings.TrimSpace(r.SourceLabel) == "" {
		return fmt.Errorf("migrations: source label is required")
	}
	if len(r.ValidationTargets) == 0 {
		return fmt.Errorf("migrations: validation targets are required")
	}
	if len(r.Filesystems) == 0 {
		return fmt.Errorf("migrations: filesystems are required")
	}
	for _, spec := range r.Filesystems {
		if spec.FS == nil {
			return fmt.Errorf("migrations: filesystem for %s is nil", spec.Dialect)
		}
	}
	return nil
}

func normalizeDialects(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" || slices.Contains(out, normalized) {
			continue
		}
		out = append(out, normalized)
	}
	return out
}
