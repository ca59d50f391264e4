package server

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/mighty/internal/logger"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

type frame struct {
	kind int
	data []byte
}

// Client 一个 WebSocket 连接
type Client struct {
	ID string
	IP string

	server *Server
	conn   *websocket.Conn
	send   chan frame

	// 收到第一帧二进制消息后，下行也改用 Protobuf 编码
	binary atomic.Bool

	mu     sync.RWMutex
	name   string
	roomID string
	closed bool
}

// NewClient 创建连接，昵称由会话分配
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		server: s,
		conn:   conn,
		send:   make(chan frame, sendBufferSize),
	}
}

// ReadPump 读取并分发消息，连接出错时返回
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		frameType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取 %s 失败: %v", c.ID, err)
			}
			return
		}

		if !c.checkRate() {
			return
		}

		msg, err := c.decode(frameType, data)
		if err != nil {
			log.Printf("解析 %s 的消息失败: %v", c.ID, err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// checkRate 返回 false 表示应断开连接
func (c *Client) checkRate() bool {
	allowed, warning := c.server.messageLimiter.AllowMessage(c.ID)
	if allowed {
		if warning {
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "请求过于频繁，请放慢速度"))
		}
		return true
	}

	if c.server.messageLimiter.ShouldDisconnect(c.ID) {
		log.Printf("🚫 %s (IP: %s) 多次超速，断开连接", c.ID, c.IP)
		return false
	}
	c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "消息发送过于频繁"))
	return true
}

func (c *Client) decode(frameType int, data []byte) (*protocol.Message, error) {
	if frameType == websocket.BinaryMessage {
		c.binary.Store(true)
		return codec.DecodeBinary(data)
	}
	return codec.Decode(data)
}

func (c *Client) encode(msg *protocol.Message) (frame, error) {
	if c.binary.Load() {
		data, err := codec.EncodeBinary(msg)
		return frame{kind: websocket.BinaryMessage, data: data}, err
	}
	data, err := codec.Encode(msg)
	return frame{kind: websocket.TextMessage, data: data}, err
}

// WritePump 写出消息并定期发送 ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(f.kind, f.data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 非阻塞投递，缓冲区满时关闭连接
func (c *Client) SendMessage(msg *protocol.Message) {
	f, err := c.encode(msg)
	if err != nil {
		log.Printf("编码 %s 消息失败: %v", msg.Type, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- f:
	default:
		log.Printf("%s 发送缓冲区已满，关闭连接", c.ID)
		c.closeLocked()
	}
}

// handleDisconnect 断线即离开房间，不保留会话
func (c *Client) handleDisconnect() {
	c.server.roomManager.ForcedLeave(c)
	c.server.sessionManager.DeleteSession(c.ID)
	c.server.messageLimiter.RemoveClient(c.ID)
	c.server.unregisterClient(c)
	c.Close()
}

// Close 关闭发送通道，WritePump 随之退出
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) GetID() string { return c.ID }

func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Client) SetName(name string) {
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}

func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	c.roomID = code
	c.mu.Unlock()
}
