package shared

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// migrationFile matches e.g. "0001_create_records_up.sql".
var migrationFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)_(up|down)\.sql$`)

// Migration is one numbered schema change for the run history store.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%04d %s", m.Version, m.Name)
}

// loadMigrations reads the embedded up/down pairs sorted by version.
func loadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		parts := migrationFile.FindStringSubmatch(entry.Name())
		if parts == nil {
			continue
		}

		version, _ := strconv.Atoi(parts[1])
		content, err := migrationFiles.ReadFile("sql/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		m := byVersion[version]
		if m == nil {
			m = &Migration{Version: version, Name: parts[2]}
			byVersion[version] = m
		}
		if parts[3] == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("incomplete migration %s", m)
		}
		migrations = append(migrations, *m)
	}
	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	return migrations, nil
}

// Migrator applies and reverts the embedded migrations, tracking them in schema_migrations.
type Migrator struct {
	db         *sql.DB
	logger     *log.Logger
	migrations []Migration
}

// NewMigrator loads the embedded migrations. A nil logger discards output.
func NewMigrator(db *sql.DB, logger *log.Logger) (*Migrator, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	return &Migrator{db: db, logger: logger, migrations: migrations}, nil
}

// Applied returns the applied versions in ascending order.
func (m *Migrator) Applied() ([]int, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations ORDER BY version ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// Up applies every pending migration in version order and returns the ones applied.
func (m *Migrator) Up() ([]Migration, error) {
	applied, err := m.Applied()
	if err != nil {
		return nil, err
	}

	var done []Migration
	for _, mig := range m.migrations {
		if slices.Contains(applied, mig.Version) {
			continue
		}

		err := m.exec(mig.Up, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", mig.Version, mig.Name)
		if err != nil {
			return done, fmt.Errorf("failed to apply migration %s: %w", mig, err)
		}
		m.logger.Info("applied migration", "version", mig.Version, "name", mig.Name)
		done = append(done, mig)
	}

	if len(done) == 0 {
		m.logger.Debug("schema up to date", "migrations", len(m.migrations))
	}
	return done, nil
}

// Down reverts the newest steps applied migrations and returns them, newest first.
func (m *Migrator) Down(steps int) ([]Migration, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: rollback steps must be positive, got %d", ErrInvalidArgument, steps)
	}

	applied, err := m.Applied()
	if err != nil {
		return nil, err
	}
	if len(applied) == 0 {
		return nil, fmt.Errorf("no migrations to rollback")
	}
	if steps > len(applied) {
		return nil, fmt.Errorf("%w: only %d migrations applied, cannot roll back %d", ErrInvalidArgument, len(applied), steps)
	}

	var done []Migration
	for _, version := range slices.Backward(applied[len(applied)-steps:]) {
		idx := slices.IndexFunc(m.migrations, func(mig Migration) bool { return mig.Version == version })
		if idx < 0 {
			return done, fmt.Errorf("migration version %d not found", version)
		}
		mig := m.migrations[idx]

		if err := m.exec(mig.Down, "DELETE FROM schema_migrations WHERE version = ?", mig.Version); err != nil {
			return done, fmt.Errorf("failed to rollback migration %s: %w", mig, err)
		}
		m.logger.Info("rolled back migration", "version", mig.Version, "name", mig.Name)
		done = append(done, mig)
	}
	return done, nil
}

// exec runs script and the bookkeeping statement in one transaction.
func (m *Migrator) exec(script, bookkeeping string, args ...any) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements(script) {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	if _, err := tx.Exec(bookkeeping, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// RunMigrations applies every pending migration on db without logging.
func RunMigrations(db *sql.DB) error {
	m, err := NewMigrator(db, nil)
	if err != nil {
		return err
	}
	_, err = m.Up()
	return err
}

// statements strips "--" comments from script and splits it on semicolons.
func statements(script string) []string {
	var b strings.Builder
	for line := range strings.Lines(script) {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx] + "\n"
		}
		b.WriteString(line)
	}

	var out []string
	for stmt := range strings.SplitSeq(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
