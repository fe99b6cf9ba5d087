package migrate

import (
	"fmt"

	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	"gorm.io/gorm"
)

// SQLiteModels lists the tables created for local SQLite databases, in dependency order.
var SQLiteModels = []any{
	&models.CrewEmail{},
	&models.User{},
	&models.Location{},
	&models.InventoryItem{},
	&models.LocationOrder{},
	&models.Notice{},
}

// ApplySQLiteSchema creates the schema from the gorm models. The goose files
// target Postgres, so SQLite databases are built from the model tags instead.
func ApplySQLiteSchema(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.AutoMigrate(SQLiteModels...); err != nil {
		return fmt.Errorf("sqlite automigrate: %w", err)
	}
	return nil
}
