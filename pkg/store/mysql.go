package store

import (
	"englishtalk/config"
	"englishtalk/pkg/log"

	"github.com/google/wire"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var ProviderSet = wire.NewSet(NewMySQL, NewMinioStore)

type MySQL struct {
	*gorm.DB
}

// NewMySQL opens the avatar database. An empty dsn yields a nil *MySQL and the app runs on the
// built-in catalog.
func NewMySQL(l *log.Logger, config *config.Config) (*MySQL, error) {
	if config.MySQL.Dsn == "" {
		l.Info("mysql.dsn not set, avatar table disabled")
		return nil, nil
	}
	db, err := gorm.Open(mysql.Open(config.MySQL.Dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return &MySQL{db}, nil
}
