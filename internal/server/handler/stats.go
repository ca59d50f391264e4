package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/server/storage"
	"github.com/palemoky/mighty/internal/types"
)

const (
	queryTimeout      = 3 * time.Second
	defaultBoardLimit = 10
	maxBoardLimit     = 50
	defaultBoardType  = storage.LeaderboardTotal
	errLeaderboardMsg = "排行榜未启用"

	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
	errHistoryMsg       = "对局归档未启用"
)

// handleGetStats 获取个人统计
func (h *Handler) handleGetStats(client types.ClientInterface, _ *protocol.Message) (any, error) {
	if h.leaderboard == nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage(errLeaderboardMsg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	stats, err := h.leaderboard.GetPlayerStats(ctx, client.GetID())
	if err != nil {
		return nil, fmt.Errorf("获取统计失败: %w", err)
	}
	if stats == nil {
		return protocol.StatsResultPayload{
			PlayerID:   client.GetID(),
			PlayerName: client.GetName(),
			Rank:       -1,
		}, nil
	}

	rank, err := h.leaderboard.GetPlayerRank(ctx, client.GetID())
	if err != nil {
		return nil, fmt.Errorf("获取排名失败: %w", err)
	}

	return protocol.StatsResultPayload{
		PlayerID:        stats.PlayerID,
		PlayerName:      stats.PlayerName,
		TotalGames:      stats.TotalGames,
		Wins:            stats.Wins,
		Losses:          stats.Losses,
		WinRate:         stats.WinRate(),
		PresidentGames:  stats.PresidentGames,
		PresidentWins:   stats.PresidentWins,
		FriendGames:     stats.FriendGames,
		OppositionGames: stats.OppositionGames,
		Score:           stats.Score,
		Rank:            int(rank),
		CurrentStreak:   stats.CurrentStreak,
		MaxWinStreak:    stats.MaxWinStreak,
	}, nil
}

// handleGetLeaderboard 获取排行榜
func (h *Handler) handleGetLeaderboard(_ types.ClientInterface, msg *protocol.Message) (any, error) {
	if h.leaderboard == nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage(errLeaderboardMsg)
	}

	payload, err := parse[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		return nil, err
	}

	switch payload.Type {
	case storage.LeaderboardTotal, storage.LeaderboardDaily, storage.LeaderboardWeekly:
	case "":
		payload.Type = defaultBoardType
	default:
		return nil, apperrors.ErrInvalidRequest.WithMessage(fmt.Sprintf("未知的排行榜类型: %q", payload.Type))
	}
	if payload.Limit <= 0 || payload.Limit > maxBoardLimit {
		payload.Limit = defaultBoardLimit
	}
	payload.Offset = max(0, payload.Offset)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	entries, err := h.leaderboard.GetLeaderboard(ctx, payload.Type, payload.Offset, payload.Limit)
	if err != nil {
		return nil, fmt.Errorf("获取排行榜失败: %w", err)
	}

	result := protocol.LeaderboardResultPayload{
		Type:    payload.Type,
		Entries: make([]protocol.LeaderboardEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		result.Entries = append(result.Entries, protocol.LeaderboardEntry{
			Rank:       entry.Rank,
			PlayerID:   entry.PlayerID,
			PlayerName: entry.PlayerName,
			Score:      entry.Score,
			Wins:       entry.Wins,
			WinRate:    entry.WinRate,
		})
	}
	return result, nil
}

// handleGetHistory 获取请求方最近的对局
func (h *Handler) handleGetHistory(client types.ClientInterface, msg *protocol.Message) (any, error) {
	if h.history == nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage(errHistoryMsg)
	}

	payload, err := parse[protocol.GetHistoryPayload](msg)
	if err != nil {
		return nil, err
	}
	if payload.Limit <= 0 || payload.Limit > maxHistoryLimit {
		payload.Limit = defaultHistoryLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	records, err := h.history.RecentRounds(ctx, client.GetID(), int64(payload.Limit))
	if err != nil {
		return nil, fmt.Errorf("获取对局历史失败: %w", err)
	}

	result := protocol.HistoryResultPayload{Rounds: make([]protocol.HistoryRound, 0, len(records))}
	for _, rec := range records {
		round := protocol.HistoryRound{
			RoomID:       rec.RoomID,
			President:    rec.President,
			Friend:       rec.Friend,
			Giruda:       rec.Giruda,
			Score:        rec.Score,
			ContractMade: rec.ContractMade,
			FinishedAt:   rec.FinishedAt.Unix(),
		}
		for _, p := range rec.Players {
			if p.ID == client.GetID() {
				round.Role, round.Points, round.Won = p.Role, p.Points, p.Won
				break
			}
		}
		result.Rounds = append(result.Rounds, round)
	}
	return result, nil
}
