package server

import (
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/palemoky/mighty/internal/config"
	"github.com/palemoky/mighty/internal/game/room"
	"github.com/palemoky/mighty/internal/server/handler"
	"github.com/palemoky/mighty/internal/server/session"
	"github.com/palemoky/mighty/internal/server/storage"
	"github.com/palemoky/mighty/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 来源已在升级前由 OriginChecker 校验
	CheckOrigin: func(*http.Request) bool { return true },
}

// Deps 由 main 创建的外部依赖，均可为 nil
type Deps struct {
	Redis       *redis.Client
	Mongo       *mongo.Client
	Leaderboard *storage.LeaderboardManager
	Archive     *storage.MongoArchive
	Recorder    types.ResultRecorder
}

// Server WebSocket 游戏服务器
type Server struct {
	config *config.Config
	redis  *redis.Client
	mongo  *mongo.Client

	roomManager    *room.RoomManager
	sessionManager *session.SessionManager
	handler        *handler.Handler
	engine         *gin.Engine

	clients   map[string]*Client
	clientsMu sync.RWMutex

	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter
	ipFilter       *IPFilter

	maxConnections int
	semaphore      chan struct{}

	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	stopMonitor chan struct{}
	stopOnce    sync.Once
}

// NewServer 组装服务器
func NewServer(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		config:         cfg,
		redis:          deps.Redis,
		mongo:          deps.Mongo,
		clients:        make(map[string]*Client),
		sessionManager: session.NewSessionManager(),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		ipFilter:       NewIPFilter(cfg.Security.BlockedIPs...),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		stopMonitor:    make(chan struct{}),
	}

	var store *storage.RedisStore
	if deps.Redis != nil {
		store = storage.NewRedisStore(deps.Redis)
	}
	opts := []room.Option{
		room.WithBidTimeout(cfg.Game.BidTimeoutDuration()),
		room.WithRoomTimeout(cfg.Game.RoomTimeoutDuration()),
		room.WithLobby(s),
	}
	if deps.Recorder != nil {
		opts = append(opts, room.WithRecorder(deps.Recorder))
	}
	s.roomManager = room.NewRoomManager(store, opts...)

	hd := handler.HandlerDeps{
		Server:         s,
		RoomManager:    s.roomManager,
		Leaderboard:    deps.Leaderboard,
		SessionManager: s.sessionManager,
	}
	if deps.Archive != nil {
		hd.History = deps.Archive
	}
	s.handler = handler.NewHandler(hd)
	s.engine = s.newRouter()

	log.Printf("🔒 安全配置: 握手 %d/s, 消息 %d/s, 最大连接数 %d, 黑名单 %d 个",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond,
		cfg.Server.MaxConnections, len(cfg.Security.BlockedIPs))

	return s
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws", s.handleWebSocket)
	r.GET("/health", s.handleHealth)
	r.GET("/rooms", s.handleRooms)
	return r
}

// Handler 返回 HTTP 路由
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start 监听并阻塞，直到 http.Server 退出
func (s *Server) Start() error {
	addr := s.config.Server.Addr()

	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}
	return nil
}
