package db

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/shinyyama/points-api/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported db driver")

// BuildDSN turns STORE_URL and STORE_KEY into a DSN for the configured driver.
func BuildDSN(cfg *config.Config) (string, error) {
	raw := strings.TrimSpace(cfg.StoreURL)
	if raw == "" {
		return "", errors.New("store url is empty")
	}
	switch cfg.DBDriver {
	case DriverPostgres:
		return postgresDSN(raw, cfg.StoreKey)
	case DriverMySQL:
		return mysqlDSN(raw, cfg.StoreKey)
	case DriverSQLite:
		return raw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DBDriver)
	}
}

func postgresDSN(raw, key string) (string, error) {
	if !strings.HasPrefix(raw, "postgres://") && !strings.HasPrefix(raw, "postgresql://") {
		// keyword/value form, e.g. "host=db user=app dbname=points"
		if key != "" && !strings.Contains(raw, "password=") {
			raw += " password=" + key
		}
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse store url: %w", err)
	}
	if key != "" {
		if u.User == nil {
			return "", errors.New("store url has no user")
		}
		if _, hasPassword := u.User.Password(); !hasPassword {
			u.User = url.UserPassword(u.User.Username(), key)
		}
	}
	return u.String(), nil
}

func mysqlDSN(raw, key string) (string, error) {
	if !strings.HasPrefix(raw, "mysql://") {
		// already a go-sql-driver DSN, e.g. user:pass@tcp(host:3306)/db
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse store url: %w", err)
	}
	if u.User == nil {
		return "", errors.New("store url has no user")
	}
	password, hasPassword := u.User.Password()
	if !hasPassword {
		password = key
	}

	q := u.Query()
	var addr string
	if socket := q.Get("socket"); socket != "" {
		addr = fmt.Sprintf("unix(%s)", socket)
		q.Del("socket")
	} else {
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		addr = fmt.Sprintf("tcp(%s)", net.JoinHostPort(u.Hostname(), port))
	}
	// clientFoundRows makes RowsAffected count matched rows, not changed ones.
	for k, v := range map[string]string{"charset": "utf8mb4", "parseTime": "True", "loc": "UTC", "clientFoundRows": "true"} {
		if q.Get(k) == "" {
			q.Set(k, v)
		}
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	return fmt.Sprintf("%s:%s@%s/%s?%s", u.User.Username(), password, addr, dbName, q.Encode()), nil
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}
	dial, err := dialector(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	db, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == DriverSQLite && isMemorySQLite(dsn) {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
		return db, nil
	}
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)

	return db, nil
}

func isMemorySQLite(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
