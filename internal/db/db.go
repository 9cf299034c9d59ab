package db

import (
	"fmt"
	"strings"

	"embedq/internal/jobs"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect picks the driver from the DSN: postgres URLs go to the postgres
// driver, anything else is treated as a sqlite file path.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&jobs.Job{}); err != nil {
		return err
	}

	// Plain index statements that work on both sqlite and postgres.
	stmts := []string{
		`create index if not exists idx_jobs_status on jobs(status);`,
		`create index if not exists idx_jobs_input_checksum on jobs(input_checksum);`,
		`create index if not exists idx_jobs_created_at on jobs(created_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
