package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var (
	slugRe = regexp.MustCompile(`[^a-z0-9]+`)
	now    = time.Now
)

// CreateSQLMigration writes an empty goose migration named <version>_<slug>.sql into
// dir. The version must sort after every migration already there, so a skewed clock
// cannot produce an out-of-order file.
func CreateSQLMigration(dir, name string) (string, error) {
	switch dir {
	case "":
		return "", errors.New("dir is required")
	case EmbeddedDir:
		return "", errors.New("embedded migrations are read-only; pass a source directory")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version := now().UTC().Format(versionLayout)
	latest, err := latestVersion(dir)
	if err != nil {
		return "", err
	}
	if version <= latest {
		return "", fmt.Errorf("version %s does not sort after existing %s", version, latest)
	}

	path := filepath.Join(dir, version+"_"+slug+".sql")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, migrationTemplate, slug); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

// postgres only; sqlite dev databases follow the gorm models
const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- undo %[1]s
-- +goose StatementEnd
`

func migrationSlug(name string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

func latestVersion(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", dir, err)
	}
	latest := ""
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		version, _, ok := strings.Cut(e.Name(), "_")
		if ok && version > latest {
			latest = version
		}
	}
	return latest, nil
}
