package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"liftsocial/internal/api"
	"liftsocial/internal/models"
	"liftsocial/internal/repository"
	"liftsocial/internal/service"
	"liftsocial/internal/storage"
	"liftsocial/internal/utils"
	"liftsocial/pkg/config"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// 載入應用程式配置
	// 從配置文件中讀取設置，如數據庫連接信息和服務器地址等
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	utils.Init(cfg.JWT.Secret)

	// 初始化資料庫連接
	// 使用配置中的信息建立到 PostgreSQL 數據庫的連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構
	// 根據定義的模型自動創建或更新數據庫表結構
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Comment{},
		&models.PersonalRecord{},
		&models.ChatRoom{},
		&models.Message{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto migrate database")
	}

	// 初始化本地媒體儲存
	media, err := storage.NewLocalMediaStore(cfg.Storage.Root, cfg.Storage.BaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize media store")
	}

	// 有設定 redis 時啟用跨實例的變動通知橋接
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	// 初始化 repositories
	repos := repository.NewRepositories(db)

	// 初始化 services
	services := service.NewServices(repos, media, rdb, logger)

	if rdb != nil {
		go services.Realtime.RunRedisBridge(context.Background())
	}

	// 設置 Gin 路由
	// 創建一個默認的 Gin 路由器並設置路由
	r := gin.Default()
	api.SetupRoutes(r, services, cfg.Storage.Root)

	// 啟動伺服器
	// 使用配置中指定的地址啟動 HTTP 服務器
	logger.Info().Str("address", cfg.Server.Address).Msg("server starting")
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Fatal().Err(err).Msg("failed to run server")
	}
}
