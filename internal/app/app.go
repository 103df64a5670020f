package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz_portal_backend/internal/client/datocms"
	"quiz_portal_backend/internal/client/quizapi"
	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/controller"
	"quiz_portal_backend/internal/datasource"
	"quiz_portal_backend/internal/middleware"
	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/pkg/configwatcher"
	"quiz_portal_backend/pkg/database"
	"quiz_portal_backend/pkg/logger"
	"quiz_portal_backend/pkg/monitoring"
	"quiz_portal_backend/pkg/security"
	"quiz_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	stopWatcher     context.CancelFunc
	configCallbacks []func(*config.Config)
}

type clients struct {
	quizAPI *quizapi.Client
	cms     *datocms.Client
}

type services struct {
	quiz    *service.QuizService
	content *service.ContentService
	proxy   *service.ProxyService
	auth    *service.AuthService
	storage *service.StorageService
	export  *service.ExportService
	waker   *service.WakerService
}

type controllers struct {
	proxy    *controller.ProxyController
	category *controller.CategoryController
	question *controller.QuestionController
	content  *controller.ContentController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initClients(cfg *config.Config) *clients {
	return &clients{
		quizAPI: quizapi.NewFromConfig(cfg, logger.Named("quizapi")),
		cms:     datocms.NewFromConfig(cfg, logger.Named("datocms")),
	}
}

// initDataSource 按配置选择数据源，启用缓存时包一层 Redis 读缓存
func (a *App) initDataSource(cfg *config.Config, cl *clients) (datasource.QuizDataSource, error) {
	backends := datasource.Backends{REST: cl.quizAPI, CMS: cl.cms}
	if a.DB != nil {
		backends.Store = datasource.NewStoreSource(a.DB)
	}

	source, err := datasource.New(cfg, backends)
	if err != nil {
		return nil, err
	}

	if a.Redis != nil {
		cache := datasource.NewRedisCache(a.Redis, cfg.Cache.Prefix)
		return datasource.Cached(source, cache, cfg.Cache.TTL, logger.Named("cache")), nil
	}
	return source, nil
}

func (a *App) initServices(cfg *config.Config, cl *clients, source datasource.QuizDataSource) *services {
	quiz := service.NewQuizService(source, logger.Named("quiz"))
	storage := service.NewStorageService(cfg, logger.Named("storage"))

	s := &services{
		quiz:    quiz,
		content: service.NewContentService(cl.cms),
		proxy:   service.NewProxyService(cfg, logger.Named("proxy")),
		auth:    service.NewAuthService(&cfg.Auth),
		storage: storage,
		export:  service.NewExportService(quiz, storage, logger.Named("export")),
	}
	if cfg.Waker.Enabled {
		s.waker = service.NewWakerService(cl.quizAPI, &cfg.Waker, cfg.Upstream.Timeout, logger.Named("waker"))
	}
	return s
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		proxy:    controller.NewProxyController(s.proxy),
		category: controller.NewCategoryController(s.quiz),
		question: controller.NewQuestionController(s.quiz),
		content:  controller.NewContentController(s.content),
		admin:    controller.NewAdminController(s.auth, s.quiz, s.export, logger.Named("admin")),
		health:   controller.NewHealthController(a.DB, cfg.DataSource.Type, s.waker),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(
		cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
		"/api/health", "/metrics",
	))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger.Named("http")))
}

// reloadConfig 只应用可以热更新的配置项
func (a *App) reloadConfig(newCfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(newCfg)
	}
}

func (a *App) startBackgroundTasks(cfg *config.Config) {
	if a.services.waker != nil {
		if err := a.services.waker.Start(); err != nil {
			logger.Log.Error("Failed to start backend waker", zap.String("schedule", cfg.Waker.Schedule), zap.Error(err))
		}
	}

	if cfg.ConfigFile == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatcher = cancel
	go func() {
		if err := configwatcher.WatchConfig(ctx, cfg.ConfigFile, a.reloadConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully",
		zap.String("mode", cfg.Server.Mode),
		zap.String("datasource", cfg.DataSource.Type),
		zap.String("upstream_mode", cfg.UpstreamMode()),
	)

	app := &App{Config: cfg}

	if cfg.DataSource.Type == config.DataSourceStore {
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
		app.DB = db
	}

	if cfg.Cache.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			// 缓存不可用时直接访问数据源
			logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	// 监控初始化
	monitoring.Init()

	cl := app.initClients(cfg)
	source, err := app.initDataSource(cfg, cl)
	if err != nil {
		logger.Log.Fatal("Failed to initialize datasource", zap.Error(err))
	}

	app.services = app.initServices(cfg, cl, source)
	controllers := app.initControllers(app.services, cfg)

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetLevel(c.Server.Mode)
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		app.services.proxy.SetBaseURL(c.Upstream.BaseURL)
	})

	if cfg.Server.Mode == config.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/exports-files", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.waker != nil {
		a.services.waker.Stop()
	}
	if a.stopWatcher != nil {
		a.stopWatcher()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
