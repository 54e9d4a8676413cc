package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
	"time"
)

// versionLayout keeps versions sortable as plain numbers
const versionLayout = "20060102150405"

var migrationTemplate = template.Must(template.New("migration").Parse(`-- Migration: {{.Name}}{{if .Down}} (Rollback){{end}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- Description: {{.Description}}
{{- end}}

`))

var (
	nonWordRun  = regexp.MustCompile(`[\s\-_]+`)
	unsafeChars = regexp.MustCompile(`[^a-z0-9_]`)
	underscores = regexp.MustCompile(`_+`)
	fileName    = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)
)

// MigrationFile represents a new migration file pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// Migration is one versioned pair found in a migration source
type Migration struct {
	Version string
	Name    string
	HasUp   bool
	HasDown bool
}

// String returns the shared base name of the pair
func (m Migration) String() string {
	return m.Version + "_" + m.Name
}

// CreateMigration writes an empty up/down pair versioned with now
func CreateMigration(migrationsDir, name, description string, now time.Time) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := now.UTC().Format(versionLayout)
	base := filepath.Join(migrationsDir, version+"_"+slug)
	mf := &MigrationFile{
		Version:     version,
		Name:        slug,
		Description: description,
		Timestamp:   now.UTC().Format(time.RFC3339),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	if err := writeMigrationFile(mf.UpPath, mf, false); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeMigrationFile(mf.DownPath, mf, true); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func writeMigrationFile(path string, mf *MigrationFile, down bool) error {
	// O_EXCL: never overwrite an existing migration
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return migrationTemplate.Execute(f, struct {
		*MigrationFile
		Down bool
	}{mf, down})
}

// sanitizeName lowercases name and folds separators into single underscores
func sanitizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonWordRun.ReplaceAllString(s, "_")
	s = unsafeChars.ReplaceAllString(s, "")
	s = underscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ListMigrations returns the migrations of source ordered by version.
// Files that do not follow <version>_<name>.<up|down>.sql are ignored.
func ListMigrations(source fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		if os.IsNotExist(err) {
			return []Migration{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byBase := make(map[string]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileName.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		key := match[1] + "_" + match[2]
		m, ok := byBase[key]
		if !ok {
			m = &Migration{Version: match[1], Name: match[2]}
			byBase[key] = m
		}
		if match[3] == "up" {
			m.HasUp = true
		} else {
			m.HasDown = true
		}
	}

	result := make([]Migration, 0, len(byBase))
	for _, m := range byBase {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result, nil
}

// CheckPairs reports every migration missing its up or down half
func CheckPairs(source fs.FS) error {
	list, err := ListMigrations(source)
	if err != nil {
		return err
	}
	var incomplete []string
	for _, m := range list {
		if !m.HasUp || !m.HasDown {
			incomplete = append(incomplete, m.String())
		}
	}
	if len(incomplete) > 0 {
		return fmt.Errorf("incomplete migration pairs: %s", strings.Join(incomplete, ", "))
	}
	return nil
}
