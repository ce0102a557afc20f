package config

import (
	"housecup/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func OpenDB(c *Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   repository.Schema + ".",
			SingularTable: false,
		},
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// InitDB opens the database and brings the schema and change feed up to date.
func InitDB(c *Config) (*gorm.DB, error) {
	db, err := OpenDB(c)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db, c.NotifyChannel); err != nil {
		return nil, err
	}
	return db, nil
}
