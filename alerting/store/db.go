package store

import (
	"fmt"
	stdlog "log"
	"os"
	"sync"
	"time"

	"alertflow/alerting/entity"
	appconf "alertflow/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db   *gorm.DB
	once sync.Once
	lock sync.Mutex
)

// GetDB opens (once) and returns the shared gorm handle, migrating the
// alerting tables on first use.
func GetDB(cfg *appconf.DatabaseConfig) *gorm.DB {
	lock.Lock()
	defer lock.Unlock()
	if db != nil {
		return db
	}
	once.Do(func() {
		var err error
		db, err = connect(cfg)
		if err != nil {
			panic(err)
		}
		if err = db.AutoMigrate(&entity.AlertHistory{}, &entity.Silence{}); err != nil {
			panic(err)
		}
	})

	return db
}

func connect(cfg *appconf.DatabaseConfig) (*gorm.DB, error) {
	newLogger := logger.New(stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags), logger.Config{
		SlowThreshold: time.Second,
		LogLevel:      logger.Warn,
		Colorful:      true,
	})

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
}
