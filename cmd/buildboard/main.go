package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atgonza18/buildboard/internal/board/entity"
	"github.com/atgonza18/buildboard/internal/board/handler"
	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/atgonza18/buildboard/internal/config"
	"github.com/atgonza18/buildboard/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting buildboard service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Project{},
		&entity.Scope{},
		&entity.Activity{},
		&entity.ProjectAssignment{},
		&entity.ScopeAssignment{},
		&entity.DailyEntry{},
		&entity.EntryAttachment{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 兜底迁移（AutoMigrate 对已有表可能跳过索引变更）
	migrationSQL := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_activity_date ON daily_entries(activity_id, entry_date)",
		"CREATE INDEX IF NOT EXISTS idx_entries_project_date ON daily_entries(project_id, entry_date)",
		"CREATE INDEX IF NOT EXISTS idx_entries_scope_date ON daily_entries(scope_id, entry_date)",
		"ALTER TABLE daily_entries ADD COLUMN IF NOT EXISTS foreman_id VARCHAR(32) DEFAULT ''",
		"ALTER TABLE daily_entries ADD COLUMN IF NOT EXISTS foreman_name VARCHAR(100) DEFAULT ''",
		"ALTER TABLE projects ADD COLUMN IF NOT EXISTS leaderboard_mode BOOLEAN DEFAULT true",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")

	// Seed: 空库时创建默认控制中心账号
	seedDefaultAdmin(db, zapLogger)

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg)
	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// seedDefaultAdmin 空库时创建默认控制中心账号，密码通过环境变量覆盖
func seedDefaultAdmin(db *gorm.DB, zapLogger *zap.Logger) {
	var count int64
	db.Model(&entity.User{}).Count(&count)
	if count > 0 {
		return
	}

	password := config.GetEnvOrDefault("ADMIN_PASSWORD", "admin123456")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		zapLogger.Warn("Failed to hash default admin password", zap.Error(err))
		return
	}

	now := time.Now()
	admin := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     "admin",
		PasswordHash: string(hash),
		Name:         "系统管理员",
		Role:         entity.RoleControlCenter,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Create(admin).Error; err != nil {
		zapLogger.Warn("Failed to seed default admin", zap.Error(err))
		return
	}
	zapLogger.Info("Seeded default control_center account", zap.String("username", "admin"))
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 看板读取接口：带Token注入身份，无Token按匿名放行，
		// 服务层对无权限的调用方降级为空数据
		readable := v1.Group("")
		readable.Use(middleware.JWTOptional(cfg.JWT.Secret))
		{
			readable.GET("/projects", h.Project.List)
			readable.GET("/projects/:id", h.Project.Get)
			readable.GET("/projects/:id/scopes", h.Project.ListScopes)
			readable.GET("/projects/:id/assignments", h.Project.ListAssignments)
			readable.GET("/projects/:id/kpis", h.KPI.ProjectKPIs)
			readable.GET("/projects/:id/trend", h.KPI.ProjectTrend)
			readable.GET("/projects/:id/leaderboard", h.Leaderboard.ProjectLeaderboard)
			readable.GET("/projects/:id/breakdown/scopes", h.Leaderboard.ScopeBreakdown)
			readable.GET("/projects/:id/breakdown/activities", h.Leaderboard.ProjectActivityBreakdown)
			readable.GET("/projects/:id/participation", h.Leaderboard.Participation)

			readable.GET("/scopes/:id/activities", h.Project.ListActivities)
			readable.GET("/scopes/:id/kpis", h.KPI.ScopeKPIs)
			readable.GET("/scopes/:id/trend", h.KPI.ScopeTrend)
			readable.GET("/scopes/:id/leaderboard", h.Leaderboard.ScopeLeaderboard)
			readable.GET("/scopes/:id/breakdown/activities", h.Leaderboard.ActivityBreakdown)

			readable.GET("/activities/:id/kpis", h.KPI.ActivityKPIs)
			readable.GET("/activities/:id/entries", h.Entry.ListByActivity)

			readable.GET("/portfolio/kpis", h.KPI.PortfolioKPIs)
			readable.GET("/portfolio/trend", h.KPI.PortfolioTrend)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户
			users := authorized.Group("/users")
			{
				users.GET("", h.User.List)
				users.GET("/search", h.User.Search)
			}

			// 日报录入
			entries := authorized.Group("/entries")
			{
				entries.POST("", h.Entry.Submit)
				entries.POST("/forecast", h.Entry.SubmitForecast)
				entries.POST("/actuals", h.Entry.SubmitActuals)
				entries.DELETE("/:id", h.Entry.Delete)
				entries.POST("/:id/attachments", h.Attachment.Upload)
				entries.GET("/:id/attachments", h.Attachment.List)
			}

			// 附件
			attachments := authorized.Group("/attachments")
			{
				attachments.GET("/:id/download", h.Attachment.Download)
				attachments.DELETE("/:id", h.Attachment.Delete)
			}

			// 项目报表（支持 ?token= 便于浏览器直接下载）
			authorized.GET("/projects/:id/report", h.Report.Export)

			// 项目结构维护，仅控制中心角色
			managed := authorized.Group("")
			managed.Use(middleware.RequireRole(entity.RoleControlCenter))
			{
				managed.POST("/auth/register", h.Auth.Register)

				managed.POST("/projects", h.Project.Create)
				managed.PUT("/projects/:id", h.Project.Update)
				managed.POST("/projects/:id/assignments", h.Project.AssignUser)
				managed.DELETE("/projects/:id/assignments/:userId", h.Project.UnassignUser)

				managed.POST("/scopes", h.Project.CreateScope)
				managed.PUT("/scopes/:id", h.Project.UpdateScope)
				managed.DELETE("/scopes/:id", h.Project.DeleteScope)
				managed.PUT("/scopes/:id/foreman", h.Project.SetScopeForeman)
				managed.DELETE("/scopes/:id/foreman", h.Project.ClearScopeForeman)

				managed.POST("/activities", h.Project.CreateActivity)
				managed.PUT("/activities/:id", h.Project.UpdateActivity)
				managed.DELETE("/activities/:id", h.Project.DeleteActivity)

				managed.POST("/admin/reset", h.Admin.Reset)
			}
		}
	}
}
