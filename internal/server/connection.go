package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/types"
)

// handleWebSocket 校验后升级连接
func (s *Server) handleWebSocket(c *gin.Context) {
	r := c.Request
	ip := GetClientIP(r)

	if s.IsMaintenanceMode() {
		log.Printf("🔧 维护模式，拒绝新连接: %s", ip)
		c.String(http.StatusServiceUnavailable, "Server is under maintenance")
		return
	}
	if !s.ipFilter.IsAllowed(ip) {
		log.Printf("🚫 IP %s 在黑名单中", ip)
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	if !s.originChecker.Check(r) {
		log.Printf("🚫 来源 %q 不被允许 (IP: %s)", r.Header.Get("Origin"), ip)
		c.String(http.StatusForbidden, "Origin not allowed")
		return
	}
	if !s.rateLimiter.Allow(ip) {
		c.String(http.StatusTooManyRequests, "Too Many Requests")
		return
	}
	if !s.acquireSlot() {
		log.Printf("🚫 达到最大连接数 %d, IP: %s", s.maxConnections, ip)
		c.String(http.StatusServiceUnavailable, "Server Full")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, r, nil)
	if err != nil {
		s.releaseSlot()
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = ip
	sess := s.sessionManager.CreateSession(client.ID)
	client.SetName(sess.Nickname)
	s.registerClient(client)

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.ID,
		PlayerName: sess.Nickname,
	}))
	log.Printf("✅ 玩家 %s (%s) 已连接", sess.Nickname, client.ID)

	go client.ReadPump()
	go client.WritePump()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"online":      s.GetOnlineCount(),
		"rooms":       s.roomManager.GetRoomCount(),
		"maintenance": s.IsMaintenanceMode(),
	})
}

func (s *Server) handleRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": s.roomManager.GetRoomList()})
}

func (s *Server) acquireSlot() bool {
	select {
	case s.semaphore <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Server) releaseSlot() {
	select {
	case <-s.semaphore:
	default:
	}
}

func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	s.clients[client.ID] = client
	s.clientsMu.Unlock()
}

// unregisterClient 只在首次注销时归还连接名额
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	_, ok := s.clients[client.ID]
	delete(s.clients, client.ID)
	s.clientsMu.Unlock()

	if ok {
		s.releaseSlot()
		log.Printf("❌ 玩家 %s (%s) 已断开", client.GetName(), client.ID)
	}
}

// GetClientByID 查找在线客户端
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}
