package storage

import (
	"github.com/MERCY1912/oddrealm-sub000/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database and keeps the schema updated
// via AutoMigrate. The battle/request tables are the shared records two
// clients coordinate through, so their guarded-update columns (version,
// status) must exist before any writer runs.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&game.Battle{},
		&game.Combatant{},
		&game.ChallengeRequest{},
		&game.Profile{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
