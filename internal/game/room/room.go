package room

import (
	"slices"
	"sync"
	"time"

	"github.com/palemoky/mighty/internal/game/card"
	"github.com/palemoky/mighty/internal/game/rule"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/server/storage"
	"github.com/palemoky/mighty/internal/types"
)

// MaxPlayers 房间人数上限
const MaxPlayers = card.PlayerCount

// RoomPlayer 房间中的玩家
type RoomPlayer struct {
	Client types.ClientInterface
	PlayerStatus
}

// Room 游戏房间
type Room struct {
	Code        string                 // 房间号（uuid）
	Phase       Phase                  // 当前阶段
	Players     map[string]*RoomPlayer // 玩家列表
	PlayerOrder []string               // 行动顺序，首位为当前首出或首叫
	CreatedAt   time.Time
	UpdatedAt   time.Time // 最近一次状态变化

	turn       int                  // 当前行动者在 PlayerOrder 中的下标
	trickIndex int                  // 0-9
	commitment *rule.Commitment     // 当前最高叫牌
	friendSel  rule.FriendSelection // 主公的选友方式
	floor      card.Hand            // 底牌
	trick      *trickState          // 当前墩，未开始时为 nil
	jokerOut   bool                 // 王牌已打出或已被扣入底牌
	president  string
	friend     string

	bidTimer *time.Timer
	bidEpoch int // 每次叫牌轮转递增，用于识别过期的计时器

	mu sync.RWMutex
}

// Dealer 发牌函数，返回五手牌和底牌
type Dealer func() [card.PlayerCount + 1]card.Hand

// LobbyNotifier 向尚未入座的玩家广播
type LobbyNotifier interface {
	BroadcastToLobby(msg *protocol.Message)
}

// RoomManager 房间管理器
type RoomManager struct {
	snapshots   *snapshotWriter
	recorder    types.ResultRecorder
	lobby       LobbyNotifier
	bidTimeout  time.Duration
	roomTimeout time.Duration
	dealer      Dealer
	rooms       map[string]*Room
	stop        chan struct{}
	stopOnce    sync.Once
	mu          sync.RWMutex
}

// Option RoomManager 可选配置
type Option func(*RoomManager)

// WithRecorder 设置结算记录器
func WithRecorder(r types.ResultRecorder) Option {
	return func(rm *RoomManager) { rm.recorder = r }
}

// WithLobby 房间创建或解散时向大厅推送房间列表
func WithLobby(l LobbyNotifier) Option {
	return func(rm *RoomManager) { rm.lobby = l }
}

// WithBidTimeout 叫牌超时自动不叫，0 表示不限时
func WithBidTimeout(d time.Duration) Option {
	return func(rm *RoomManager) { rm.bidTimeout = d }
}

// WithRoomTimeout 准备阶段闲置超过该时长的房间会被关闭，0 表示不清理
func WithRoomTimeout(d time.Duration) Option {
	return func(rm *RoomManager) { rm.roomTimeout = d }
}

// WithDealer 替换发牌函数
func WithDealer(d Dealer) Option {
	return func(rm *RoomManager) { rm.dealer = d }
}

// NewRoomManager 创建房间管理器，rs 为 nil 时不保存快照
func NewRoomManager(rs *storage.RedisStore, opts ...Option) *RoomManager {
	rm := &RoomManager{
		dealer: card.ShuffleAndDeal,
		rooms:  make(map[string]*Room),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rm)
	}

	if rs != nil {
		rm.snapshots = newSnapshotWriter(rs, rm.stop)
	}

	if rm.roomTimeout > 0 {
		go rm.cleanupLoop()
	}

	return rm
}

// Stop 停止后台清理协程和快照写入协程
func (rm *RoomManager) Stop() {
	rm.stopOnce.Do(func() { close(rm.stop) })
}

func newRoom(code string) *Room {
	now := time.Now()
	return &Room{
		Code:        code,
		Phase:       PhaseReady,
		Players:     make(map[string]*RoomPlayer),
		PlayerOrder: make([]string, 0, MaxPlayers),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// currentID 当前行动者
func (r *Room) currentID() string {
	if r.turn < 0 || r.turn >= len(r.PlayerOrder) {
		return ""
	}
	return r.PlayerOrder[r.turn]
}

// rotateTo 旋转行动顺序使 id 位于首位
func (r *Room) rotateTo(id string) {
	for i, pid := range r.PlayerOrder {
		if pid == id {
			r.PlayerOrder = slices.Concat(r.PlayerOrder[i:], r.PlayerOrder[:i])
			r.turn = 0
			return
		}
	}
}

func (r *Room) touch() {
	r.UpdatedAt = time.Now()
}

// GetPhase 获取当前阶段
func (r *Room) GetPhase() Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Phase
}

// PlayerCount 当前人数
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Players)
}
