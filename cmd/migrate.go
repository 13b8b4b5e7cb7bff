package cmd

import (
	"fmt"
	"strconv"

	"github.com/frahmantamala/marketplace/db"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

const migrationTable = "schema_migrations"

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema migrations",
		Long: `Apply the SQL migrations embedded in the binary, or those in --dir.
--rollback undoes the latest version, --status prints what is applied and
--to stops at the given version.`,
		RunE: runMigration,
	}
	migrateRollback bool
	migrateStatus   bool
	migrateTo       int64
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "Roll back the latest migration")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Print migration status and exit")
	migrateCmd.Flags().Int64Var(&migrateTo, "to", 0, "Migrate up to this version only")
	migrateCmd.Flags().StringVarP(&migrateDir, "dir", "d", "", "Read migrations from this directory instead of the embedded set")
}

// migrationArgs maps the flags onto a goose command.
func migrationArgs() (string, []string) {
	switch {
	case migrateStatus:
		return "status", nil
	case migrateRollback:
		return "down", nil
	case migrateTo > 0:
		return "up-to", []string{strconv.FormatInt(migrateTo, 10)}
	default:
		return "up", nil
	}
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	conn, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	goose.SetTableName(migrationTable)

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = "migrations"
	}

	command, args := migrationArgs()
	if err := goose.RunContext(cmd.Context(), command, conn, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
