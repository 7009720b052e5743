package initialize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quicksort/backend/app/controllers"
	"quicksort/backend/app/db"
	"quicksort/backend/app/fsutil"
	jwtutil "quicksort/backend/app/jwt"
	"quicksort/backend/app/middleware"
	"quicksort/backend/app/models"
	"quicksort/backend/app/notify"
	"quicksort/backend/app/repo"
	"quicksort/backend/app/services"
	"quicksort/backend/config"
	"quicksort/backend/global"
	"quicksort/backend/router"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg       *config.Config
	DB        *gorm.DB
	Router    http.Handler
	Signer    *jwtutil.Signer
	Tree      *services.TreeService
	Rules     *services.RuleService
	Logs      *services.FileLogService
	Organizer *services.OrganizerService
	Monitor   *services.MonitorService
}

// Build wires configuration, storage, services and the HTTP router.
func Build(configPath string) (*App, error) {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = *cfg
	SetupLogger(cfg.Log, nil)
	return BuildWith(cfg)
}

// BuildWith wires an App from an already loaded config.
func BuildWith(cfg *config.Config) (*App, error) {
	// Connect DB
	gdb, err := db.Connect(db.Config{
		Driver:   cfg.DB.Driver,
		Path:     cfg.DB.Path,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Pass,
		DBName:   cfg.DB.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	// Migrate
	if err := gdb.AutoMigrate(&models.TreeNode{}, &models.OrganizationRule{}, &models.FileLog{}, &models.MonitorConfig{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var pub notify.Publisher = notify.Nop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			// non-critical, log entries still land in the database
			global.Logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, log events will not be published")
			_ = rdb.Close()
		} else {
			global.Rdb = rdb
			pub = notify.NewRedisPublisher(rdb, cfg.Redis.Channel)
			global.Logger.Info().Str("addr", cfg.Redis.Addr).Str("channel", cfg.Redis.Channel).Msg("publishing log events to redis")
		}
	}

	// Services
	fsys := fsutil.OS{}
	catalog := services.NewCatalog()
	treeRepo := repo.NewTreeRepository(gdb)
	ruleRepo := repo.NewRuleRepository(gdb)
	treeSvc := services.NewTreeService(catalog, treeRepo, ruleRepo, fsys, cfg.Tree.RootPath, cfg.Tree.MaxDepth)
	ruleSvc := services.NewRuleService(catalog, ruleRepo, treeRepo)
	logSvc := services.NewFileLogService(repo.NewFileLogRepository(gdb), pub)
	organizer := services.NewOrganizerService(services.NewClassifier(catalog, treeRepo, ruleRepo), logSvc, fsys)
	monitorSvc := services.NewMonitorService(repo.NewMonitorConfigRepository(gdb), organizer, fsys, cfg.Monitor)

	// Controllers
	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, ExpMin: cfg.JWT.ExpMin}
	mw := &middleware.Auth{Signer: signer}
	ctrls := router.Controllers{
		Tree:     controllers.NewTreeController(treeSvc),
		Rules:    controllers.NewRuleController(ruleSvc),
		Monitor:  controllers.NewMonitorController(monitorSvc),
		Organize: controllers.NewOrganizeController(organizer),
		Logs:     controllers.NewLogController(logSvc),
		Health:   controllers.NewHealthController(gdb),
	}

	// Router
	h := router.NewRouter(ctrls, mw)
	// Wrap with logging middleware
	h = middleware.Logging(h)

	return &App{
		Cfg:       cfg,
		DB:        gdb,
		Router:    h,
		Signer:    signer,
		Tree:      treeSvc,
		Rules:     ruleSvc,
		Logs:      logSvc,
		Organizer: organizer,
		Monitor:   monitorSvc,
	}, nil
}

// Close stops the monitor and releases storage connections.
func (a *App) Close() {
	a.Monitor.Shutdown()
	if global.Rdb != nil {
		_ = global.Rdb.Close()
		global.Rdb = nil
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
