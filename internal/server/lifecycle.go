package server

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
)

const (
	monitorInterval = 30 * time.Second
	closeTimeout    = 5 * time.Second
)

// monitorStats 定期输出运行状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopMonitor:
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			log.Printf("📊 [监控] 在线: %d | 房间: %d (对局中 %d) | Goroutines: %d | 连接: %d/%d | 内存: %.2f MB",
				s.GetOnlineCount(),
				s.roomManager.GetRoomCount(),
				s.roomManager.GetActiveGamesCount(),
				runtime.NumGoroutine(),
				len(s.semaphore),
				s.maxConnections,
				float64(m.Alloc)/1024/1024)
		}
	}
}

// EnterMaintenanceMode 拒绝新连接和新房间，进行中的牌局不受影响
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	already := s.maintenanceMode
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()
	if already {
		return
	}

	s.Broadcast(codec.MustNewMessage(protocol.MsgMaintenance, protocol.MaintenancePayload{
		Maintenance: true,
		Message:     "服务器即将维护，暂停创建和加入房间",
	}))
	log.Println("🔧 进入维护模式")
}

// IsMaintenanceMode 是否处于维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 等待牌局结束（最多 timeout）后关闭
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	if s.waitForGames(timeout) {
		delay := s.config.Game.ShutdownDelay
		log.Printf("✅ 所有牌局已结束，%ds 后关闭", delay)
		s.Broadcast(codec.MustNewMessage(protocol.MsgMaintenance, protocol.MaintenancePayload{
			Maintenance: true,
			Message:     fmt.Sprintf("服务器将在 %d 秒后停机维护", delay),
		}))
		time.Sleep(s.config.Game.ShutdownDelayDuration())
	} else {
		log.Printf("⚠️ 等待超时，仍有 %d 个牌局进行中，强制关闭", s.roomManager.GetActiveGamesCount())
	}

	s.Shutdown()
}

// waitForGames 返回 false 表示超时
func (s *Server) waitForGames(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(s.config.Game.ShutdownCheckIntervalDuration())
	defer ticker.Stop()

	for {
		active := s.roomManager.GetActiveGamesCount()
		if active == 0 {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		log.Printf("⏳ 等待 %d 个牌局结束...", active)
		<-ticker.C
	}
}

// Shutdown 立即断开所有连接并释放外部资源
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() { close(s.stopMonitor) })

	s.clientsMu.RLock()
	for _, c := range s.clients {
		c.Close()
	}
	s.clientsMu.RUnlock()

	s.roomManager.Stop()
	s.rateLimiter.Stop()

	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := s.mongo.Disconnect(ctx); err != nil {
			log.Printf("断开 MongoDB 失败: %v", err)
		}
	}

	log.Println("服务器已关闭")
}
