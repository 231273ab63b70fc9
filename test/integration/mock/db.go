package mock

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/condo-portal/ledger/config"
	"github.com/condo-portal/ledger/internal/infra/db"
)

var once sync.Once
var database *Db

// Db is a shared in-memory SQLite database holding the given models by table name.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens the shared database once and migrates the models.
func NewDb(name string, models map[string]any) *Db {
	once.Do(
		func() {
			database = open(name, models)
		},
	)

	return database
}

func open(name string, models map[string]any) *Db {
	conn, err := db.NewConnection(&config.DatabaseConfig{
		Driver: "sqlite",
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDbMock := &Db{
		DbConn: conn.DB(),
		models: models,
	}

	modelList := make([]any, 0, len(models))
	for _, model := range models {
		modelList = append(modelList, model)
	}
	if err := conn.AutoMigrate(modelList...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB deletes every row of every registered table.
func (d *Db) ClearDB() error {
	for table, model := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
