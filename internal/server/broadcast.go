package server

import "github.com/palemoky/mighty/internal/protocol"

// GetOnlineCount 在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Broadcast 发给所有连接
func (s *Server) Broadcast(msg *protocol.Message) {
	s.each(func(c *Client) bool { return true }, msg)
}

// BroadcastToLobby 发给不在房间里的连接
func (s *Server) BroadcastToLobby(msg *protocol.Message) {
	s.each(func(c *Client) bool { return c.GetRoom() == "" }, msg)
}

func (s *Server) each(match func(*Client) bool, msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		if match(c) {
			c.SendMessage(msg)
		}
	}
}
