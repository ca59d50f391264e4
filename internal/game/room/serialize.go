package room

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/palemoky/mighty/internal/server/storage"
)

const snapshotTimeout = 3 * time.Second

// ToRoomData 将 Room 转换为可序列化的 RoomData
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// snapshot 调用方需持有锁
func (r *Room) snapshot() *storage.RoomData {
	data := &storage.RoomData{
		Code:        r.Code,
		Phase:       r.Phase.String(),
		Players:     make([]storage.PlayerData, 0, len(r.Players)),
		PlayerOrder: r.playerList(),
		CreatedAt:   r.CreatedAt.Unix(),
	}

	for _, id := range r.PlayerOrder {
		player := r.Players[id]
		pd := storage.PlayerData{
			ID:       id,
			Name:     player.Client.GetName(),
			Ready:    player.Ready,
			HandSize: len(player.Hand),
			Score:    player.Score,
		}
		if player.Role != RoleNone {
			pd.Role = player.Role.String()
		}
		data.Players = append(data.Players, pd)
	}

	if r.Phase != PhaseReady {
		round := &storage.RoundData{
			President:  r.president,
			Friend:     r.friend,
			TrickIndex: r.trickIndex,
			Turn:       r.currentID(),
		}
		if r.commitment != nil {
			round.Commitment = r.commitment.String()
		}
		if r.friendSel != nil {
			round.FriendMode = string(r.friendSel.Mode())
		}
		data.Round = round
	}

	return data
}

// persist 异步保存房间快照，调用方需持有锁
func (rm *RoomManager) persist(r *Room) {
	if rm.snapshots == nil {
		return
	}
	rm.snapshots.submit(snapshotOp{code: r.Code, data: r.snapshot()})
}

// forget 异步删除房间快照
func (rm *RoomManager) forget(code string) {
	if rm.snapshots == nil {
		return
	}
	rm.snapshots.submit(snapshotOp{code: code})
}

// snapshotOp 快照写操作，data 为 nil 表示删除
type snapshotOp struct {
	code string
	data *storage.RoomData
}

// snapshotWriter 单协程按提交顺序写入快照，删除之后不会再被较早的保存覆盖
type snapshotWriter struct {
	store *storage.RedisStore
	queue []snapshotOp
	wake  chan struct{}
	mu    sync.Mutex
}

func newSnapshotWriter(store *storage.RedisStore, stop <-chan struct{}) *snapshotWriter {
	w := &snapshotWriter{
		store: store,
		wake:  make(chan struct{}, 1),
	}
	go w.run(stop)
	return w
}

// submit 入队后立即返回，不阻塞持锁的调用方
func (w *snapshotWriter) submit(op snapshotOp) {
	w.mu.Lock()
	w.queue = append(w.queue, op)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *snapshotWriter) run(stop <-chan struct{}) {
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-stop:
			w.flush()
			return
		}
	}
}

// flush 依次执行队列中的操作，直到队列为空
func (w *snapshotWriter) flush() {
	for {
		w.mu.Lock()
		ops := w.queue
		w.queue = nil
		w.mu.Unlock()

		if len(ops) == 0 {
			return
		}
		for _, op := range ops {
			w.apply(op)
		}
	}
}

func (w *snapshotWriter) apply(op snapshotOp) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	if op.data == nil {
		if err := w.store.DeleteRoom(ctx, op.code); err != nil {
			log.Printf("⚠️ 删除房间 %s 快照失败: %v", op.code, err)
		}
		return
	}
	if err := w.store.SaveRoom(ctx, op.code, op.data); err != nil {
		log.Printf("⚠️ 保存房间 %s 快照失败: %v", op.code, err)
	}
}
