package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

// Reactive 非阻塞版本的监听地址、并发上限与存储（redis | memory）
type Reactive struct {
	Host    string
	Port    int
	Workers int64
	Store   string
}

type App struct {
	Name     string
	Env      string
	HTTP     HTTP
	Reactive Reactive
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

// JWT Secret 为空时不启用写接口鉴权
type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Limits struct {
	RPS          float64
	Burst        int
	PerIP        bool // true 时每个客户端 IP 一个令牌桶
	Concurrency  int64
	MaxBodyBytes int64
	TimeoutSec   int
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Limits Limits
}

const defaultPath = "./configs/config.local.yaml"

// setDefaults 每个配置项都要在这里登记，否则 Unmarshal 时读不到对应的 APP_ 环境变量
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "employee-crud")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.reactive.host", "0.0.0.0")
	v.SetDefault("app.reactive.port", 8081)
	v.SetDefault("app.reactive.workers", 64)
	v.SetDefault("app.reactive.store", "redis")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.compress", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxSizeMB", 100)
	v.SetDefault("log.rotate.maxBackups", 7)
	v.SetDefault("log.rotate.maxAgeDays", 30)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyPrefix", "crud:")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "employee-crud")
	v.SetDefault("jwt.accessTokenTTLMin", 60)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.perIP", false)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxBodyBytes", 1<<20)
	v.SetDefault("limits.timeoutSec", 10)
}

// Read 读取 YAML 配置；APP_ 前缀的环境变量覆盖同名项（app.http.port → APP_APP_HTTP_PORT）。
// 使用默认路径且文件不存在时只用默认值 + 环境变量。
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = defaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Load 同 Read，失败直接退出
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatal(err)
	}
	return c
}
