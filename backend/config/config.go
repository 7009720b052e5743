package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Host string
	Port int
}

type DB struct {
	Driver string // sqlite | mysql
	Path   string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
}

type Tree struct {
	RootPath string
	MaxDepth int
}

type Monitor struct {
	WatchFolder  string
	AutoOrganize bool
	Recursive    bool
	Interval     time.Duration
	SettleDelay  time.Duration
	ScanTimeout  time.Duration
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	Server  Server
	DB      DB
	DataDir string
	Tree    Tree
	Monitor Monitor
	Redis   Redis
	JWT     struct {
		Secret string
		Issuer string
		ExpMin int
	}
	Log Log
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port) }

// LockPath is the process lock guarding the data directory.
func (c Config) LockPath() string { return filepath.Join(c.DataDir, "quicksort.lock") }

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("data_dir", "data")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "quicksort")
	v.SetDefault("tree.root_path", filepath.Join(home, "Organized"))
	v.SetDefault("tree.max_depth", 10)
	v.SetDefault("monitor.watch_folder", "")
	v.SetDefault("monitor.auto_organize", true)
	v.SetDefault("monitor.recursive", false)
	v.SetDefault("monitor.interval", "2s")
	v.SetDefault("monitor.settle_delay", "500ms")
	v.SetDefault("monitor.scan_timeout", "30s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "quicksort:logs")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "quicksort")
	v.SetDefault("auth.exp_min", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads the yaml file at path. An empty path, or a path that does not
// exist, yields the defaults plus QUICKSORT_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("quicksort")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server:  Server{Host: v.GetString("server.host"), Port: v.GetInt("server.port")},
		DataDir: v.GetString("data_dir"),
		DB: DB{
			Driver: strings.ToLower(v.GetString("db.driver")),
			Path:   v.GetString("db.path"),
			Host:   v.GetString("db.host"),
			Port:   v.GetInt("db.port"),
			User:   v.GetString("db.user"),
			Pass:   v.GetString("db.pass"),
			Name:   v.GetString("db.name"),
		},
		Tree: Tree{RootPath: v.GetString("tree.root_path"), MaxDepth: v.GetInt("tree.max_depth")},
		Monitor: Monitor{
			WatchFolder:  v.GetString("monitor.watch_folder"),
			AutoOrganize: v.GetBool("monitor.auto_organize"),
			Recursive:    v.GetBool("monitor.recursive"),
			Interval:     v.GetDuration("monitor.interval"),
			SettleDelay:  v.GetDuration("monitor.settle_delay"),
			ScanTimeout:  v.GetDuration("monitor.scan_timeout"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Channel:  v.GetString("redis.channel"),
		},
		Log: Log{Level: v.GetString("log.level"), Format: v.GetString("log.format")},
	}
	cfg.JWT.Secret = v.GetString("auth.secret")
	cfg.JWT.Issuer = v.GetString("auth.issuer")
	cfg.JWT.ExpMin = v.GetInt("auth.exp_min")
	if cfg.JWT.ExpMin <= 0 {
		cfg.JWT.ExpMin = 60
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.DB.Path = expandHome(cfg.DB.Path)
	cfg.Tree.RootPath = expandHome(cfg.Tree.RootPath)
	cfg.Monitor.WatchFolder = expandHome(cfg.Monitor.WatchFolder)

	if cfg.DB.Driver != "sqlite" && cfg.DB.Driver != "mysql" {
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
	if cfg.DB.Driver == "sqlite" && cfg.DB.Path == "" {
		cfg.DB.Path = filepath.Join(cfg.DataDir, "quicksort.db")
	}
	if cfg.Tree.MaxDepth <= 0 {
		cfg.Tree.MaxDepth = 10
	}
	if cfg.Monitor.Interval <= 0 {
		cfg.Monitor.Interval = 2 * time.Second
	}
	if cfg.Monitor.SettleDelay < 0 {
		cfg.Monitor.SettleDelay = 0
	}
	if cfg.Monitor.ScanTimeout <= 0 {
		cfg.Monitor.ScanTimeout = 30 * time.Second
	}
	return cfg, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
