package server

import (
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleExpiry      = 10 * time.Minute
	maxRateWarnings        = 5
)

// RateLimiter 按 IP 限制握手频率，超限后封禁一段时间
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*ipWindow

	perSecond   int
	perMinute   int
	banDuration time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

type ipWindow struct {
	second      time.Time
	minute      time.Time
	inSecond    int
	inMinute    int
	bannedUntil time.Time
}

// NewRateLimiter 创建握手限流器并启动过期清理
func NewRateLimiter(perSecond, perMinute int, banDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows:     make(map[string]*ipWindow),
		perSecond:   perSecond,
		perMinute:   perMinute,
		banDuration: banDuration,
		stop:        make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow 记录一次请求并判断是否放行
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[ip]
	if !ok {
		rl.windows[ip] = &ipWindow{second: now, minute: now, inSecond: 1, inMinute: 1}
		return true
	}
	if now.Before(w.bannedUntil) {
		return false
	}

	if now.Sub(w.second) >= time.Second {
		w.second, w.inSecond = now, 0
	}
	if now.Sub(w.minute) >= time.Minute {
		w.minute, w.inMinute = now, 0
	}
	w.inSecond++
	w.inMinute++

	if w.inSecond > rl.perSecond || w.inMinute > rl.perMinute {
		w.bannedUntil = now.Add(rl.banDuration)
		log.Printf("⚠️ IP %s 握手过于频繁，封禁 %v", ip, rl.banDuration)
		return false
	}
	return true
}

// IsBanned IP 是否处于封禁期
func (rl *RateLimiter) IsBanned(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	w, ok := rl.windows[ip]
	return ok && time.Now().Before(w.bannedUntil)
}

// Stop 停止清理协程
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.purge(now)
		}
	}
}

// purge 清除长时间无请求且未封禁的记录
func (rl *RateLimiter) purge(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, w := range rl.windows {
		if now.Sub(w.minute) > limiterIdleExpiry && now.After(w.bannedUntil) {
			delete(rl.windows, ip)
			removed++
		}
	}
	return removed
}

// OriginChecker 校验 WebSocket 握手的 Origin 头
type OriginChecker struct {
	allowed  map[string]struct{}
	allowAll bool
}

// NewOriginChecker 创建来源校验器，"*" 表示放行所有来源
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o == "*" {
			oc.allowAll = true
			continue
		}
		oc.allowed[strings.ToLower(strings.TrimSpace(o))] = struct{}{}
	}
	return oc
}

// Check 没有 Origin 头的请求（原生客户端）直接放行
func (oc *OriginChecker) Check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if oc.allowAll || origin == "" {
		return true
	}
	_, ok := oc.allowed[strings.ToLower(origin)]
	return ok
}

// IPFilter 黑白名单；白名单非空时只放行白名单
type IPFilter struct {
	mu        sync.RWMutex
	whitelist map[string]struct{}
	blacklist map[string]struct{}
}

// NewIPFilter 创建过滤器，blocked 为初始黑名单
func NewIPFilter(blocked ...string) *IPFilter {
	f := &IPFilter{
		whitelist: make(map[string]struct{}),
		blacklist: make(map[string]struct{}, len(blocked)),
	}
	for _, ip := range blocked {
		if ip = strings.TrimSpace(ip); ip != "" {
			f.blacklist[ip] = struct{}{}
		}
	}
	return f
}

func (f *IPFilter) AddToWhitelist(ip string) {
	f.mu.Lock()
	f.whitelist[ip] = struct{}{}
	f.mu.Unlock()
}

func (f *IPFilter) AddToBlacklist(ip string) {
	f.mu.Lock()
	f.blacklist[ip] = struct{}{}
	f.mu.Unlock()
}

func (f *IPFilter) RemoveFromBlacklist(ip string) {
	f.mu.Lock()
	delete(f.blacklist, ip)
	f.mu.Unlock()
}

// IsAllowed 黑名单优先于白名单
func (f *IPFilter) IsAllowed(ip string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if _, blocked := f.blacklist[ip]; blocked {
		return false
	}
	if len(f.whitelist) == 0 {
		return true
	}
	_, ok := f.whitelist[ip]
	return ok
}

// GetClientIP 依次取 X-Forwarded-For 首项、X-Real-IP、RemoteAddr
func GetClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// MessageRateLimiter 已建立连接的每秒消息数限制
type MessageRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*msgWindow

	perSecond int
	warnAt    int
}

type msgWindow struct {
	start    time.Time
	count    int
	warnings int
}

// NewMessageRateLimiter 超过一半配额时提醒客户端
func NewMessageRateLimiter(perSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		clients:   make(map[string]*msgWindow),
		perSecond: perSecond,
		warnAt:    perSecond / 2,
	}
}

// AllowMessage 返回是否放行以及是否需要提醒
func (ml *MessageRateLimiter) AllowMessage(clientID string) (allowed, warning bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	w, ok := ml.clients[clientID]
	if !ok {
		ml.clients[clientID] = &msgWindow{start: now, count: 1}
		return true, false
	}
	if now.Sub(w.start) >= time.Second {
		w.start, w.count = now, 1
		return true, false
	}

	w.count++
	switch {
	case w.count > ml.perSecond:
		w.warnings++
		return false, true
	case w.count > ml.warnAt:
		return true, true
	default:
		return true, false
	}
}

// GetWarningCount 累计超限次数
func (ml *MessageRateLimiter) GetWarningCount(clientID string) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	if w, ok := ml.clients[clientID]; ok {
		return w.warnings
	}
	return 0
}

// ShouldDisconnect 超限次数过多时断开
func (ml *MessageRateLimiter) ShouldDisconnect(clientID string) bool {
	return ml.GetWarningCount(clientID) > maxRateWarnings
}

// RemoveClient 连接断开时清理
func (ml *MessageRateLimiter) RemoveClient(clientID string) {
	ml.mu.Lock()
	delete(ml.clients, clientID)
	ml.mu.Unlock()
}
