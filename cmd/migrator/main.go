// Command migrator applies the storefront SQL migrations.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	dsnFlag            = "dsn"
	migrationsPathFlag = "migrations-path"
	downFlag           = "down"

	dsnEnv = "STOREFRONT_SQL_DB"
)

type flags struct {
	dsn            string
	migrationsPath string
	down           bool
}

func main() {
	f := parseFlags()
	validateFlags(f)
	runMigrations(f)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default().With("component", "migrator"),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func parseFlags() flags {
	var f flags
	pflag.StringVarP(&f.dsn, dsnFlag, "d", os.Getenv(dsnEnv),
		"postgres dsn without scheme, e.g. user:pass@localhost:5432/storefront")
	pflag.StringVarP(&f.migrationsPath, migrationsPathFlag, "m", "migrations",
		"directory with *.sql migrations")
	pflag.BoolVar(&f.down, downFlag, false, "roll back every migration")
	pflag.Parse()
	return f
}

func validateFlags(f flags) {
	var errs []error

	if f.dsn == "" {
		errs = append(errs, fmt.Errorf("--%s flag or %s: required", dsnFlag, dsnEnv))
	}

	if f.migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationsPathFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

func runMigrations(f flags) {
	dsn := strings.TrimPrefix(strings.TrimPrefix(f.dsn, "postgres://"), "postgresql://")

	m, err := migrate.New(
		fmt.Sprintf("file://%s", f.migrationsPath),
		fmt.Sprintf("pgx5://%s", dsn),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	defer m.Close()

	m.Log = NewMigrationLogger()

	apply, direction := m.Up, "up"
	if f.down {
		apply, direction = m.Down, "down"
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "direction", direction, "err", err)
		fallDown()
	}
	m.Log.Printf("migrations applied: %s", direction)
}

func fallDown() {
	os.Exit(2)
}
