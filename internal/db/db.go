package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Options 描述打开数据库所需的参数。
type Options struct {
	Driver   string // sqlite, postgres, mysql
	Path     string // sqlite 文件路径
	URL      string // postgres / mysql DSN
	LogLevel string // silent, error, warn, info
}

// Init 打开数据库连接、执行自动迁移并设置全局 DB。
// Path 为空时将回退到默认值 socialnet.db。
func Init(opts Options) error {
	gdb, err := Open(opts)
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open returns a gorm handle for the configured driver without migrating.
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName(opts.Driver), err)
	}

	return gdb, nil
}

// Migrate 为核心模型创建表和索引
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Follow{},
		&Tag{},
		&Post{},
		&PostImage{},
		&PostLike{},
		&Commentary{},
	)
}

// Close releases the pooled connections behind DB.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch driverName(opts.Driver) {
	case "sqlite":
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = "socialnet.db"
		}
		if !strings.HasPrefix(path, "file:") && path != ":memory:" {
			if err := ensureParentDir(path); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(withForeignKeys(path)), nil
	case "postgres":
		if strings.TrimSpace(opts.URL) == "" {
			return nil, errors.New("DATABASE_URL is required for postgres")
		}
		return postgres.Open(opts.URL), nil
	case "mysql":
		if strings.TrimSpace(opts.URL) == "" {
			return nil, errors.New("DATABASE_URL is required for mysql")
		}
		return mysql.Open(opts.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// withForeignKeys 为 sqlite DSN 打开外键约束（按连接生效，因此写在 DSN 里）。
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func driverName(driver string) string {
	name := strings.ToLower(strings.TrimSpace(driver))
	switch name {
	case "", "sqlite3":
		return "sqlite"
	case "postgresql", "pg":
		return "postgres"
	}
	return name
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
