package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLiteDSN 进程内共享的内存库，进程退出即清空
const DefaultSQLiteDSN = "file::memory:?cache=shared"

var ErrUnsupportedDriver = errors.New("database: unsupported driver")

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	Log                *zap.Logger // 可选，打印脱敏后的 DSN
}

func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(o.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}
	return db.Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}), nil
}

func dialector(o Opts) (gorm.Dialector, error) {
	switch o.Driver {
	case "sqlite", "":
		dsn := o.DSN
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "mysql":
		dsn := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		if o.Log != nil {
			o.Log.Info("mysql dsn", zap.String("dsn", maskDSN(dsn)))
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
	}
}

func gormLogLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

// maskDSN user:pass@tcp(...) → user:****@tcp(...)
func maskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	colon := strings.Index(dsn[:at], ":")
	if colon <= 0 {
		return dsn
	}
	return dsn[:colon+1] + "****" + dsn[at:]
}

// normalizeMySQLDSN 把 jdbc:mysql:// 或 mysql:// URL 转成 go-sql-driver 的 DSN；
// 已经是 user:pass@tcp(...) 形式的原样返回。
func normalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}
	u, err := url.Parse(in)
	if err != nil {
		return in // 交给驱动报错
	}

	var user, pass string
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	q := u.Query()
	if v := q.Get("user"); v != "" {
		user = v
	}
	if v := q.Get("password"); v != "" {
		pass = v
	}
	q.Del("user")
	q.Del("password")
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	// JDBC 专用参数
	if v := q.Get("characterEncoding"); v != "" && q.Get("charset") == "" {
		q.Set("charset", v)
	}
	for _, k := range []string{"characterEncoding", "useUnicode", "zeroDateTimeBehavior", "allowPublicKeyRetrieval"} {
		q.Del(k)
	}
	if v := strings.ToLower(q.Get("useSSL")); v != "" {
		switch v {
		case "true", "1":
			q.Set("tls", "true")
		case "skip-verify", "preferred":
			q.Set("tls", v)
		default:
			q.Set("tls", "false")
		}
		q.Del("useSSL")
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		q.Set("loc", tz)
		q.Del("serverTimezone")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, u.Host, strings.TrimPrefix(u.Path, "/"))
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}
