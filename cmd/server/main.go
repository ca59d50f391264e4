package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/palemoky/mighty/internal/config"
	"github.com/palemoky/mighty/internal/logger"
	"github.com/palemoky/mighty/internal/server"
	"github.com/palemoky/mighty/internal/server/storage"
	"github.com/palemoky/mighty/internal/types"
)

const startupTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	if err := logger.Init(cfg.Log.File); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	rdb, err := connectRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("Redis 连接失败: %v", err)
	}

	leaderboard := storage.NewLeaderboardManager(rdb)
	recorders := []types.ResultRecorder{leaderboard}

	var (
		mongoClient *mongo.Client
		archive     *storage.MongoArchive
	)
	if cfg.Mongo.Enabled() {
		mongoClient, err = connectMongo(cfg.Mongo)
		if err != nil {
			log.Fatalf("MongoDB 连接失败: %v", err)
		}
		archive = storage.NewMongoArchive(mongoClient.Database(cfg.Mongo.Database))
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		archive.EnsureIndexes(ctx)
		cancel()
		recorders = append(recorders, archive)
		log.Printf("🗄️ 对局归档已启用: %s", cfg.Mongo.Database)
	}

	srv := server.NewServer(cfg, server.Deps{
		Redis:       rdb,
		Mongo:       mongoClient,
		Leaderboard: leaderboard,
		Archive:     archive,
		Recorder:    storage.NewMultiRecorder(recorders...),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		log.Printf("收到 %v，开始优雅关闭...", sig)
		srv.GracefulShutdown(cfg.Game.ShutdownTimeoutDuration())
		logger.Close()
		os.Exit(0)
	}()

	log.Println("🎮 Mighty 服务器启动中...")
	if err := srv.Start(); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}

// connectRedis 连接 Redis，并清掉上次进程遗留的房间快照
func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	n, err := storage.NewRedisStore(rdb).PurgeRooms(ctx)
	if err != nil {
		log.Printf("⚠️ 清理遗留房间失败: %v", err)
	} else if n > 0 {
		log.Printf("🧹 清理了 %d 个遗留房间快照", n)
	}
	return rdb, nil
}

func connectMongo(cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.TimeoutDuration())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.TimeoutDuration()))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
