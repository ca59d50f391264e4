package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/palemoky/mighty/internal/types"
)

const roundsCollection = "rounds"

// RoundRecord 归档的一局记录
type RoundRecord struct {
	RoomID       string         `bson:"room_id"`
	President    string         `bson:"president"`
	Friend       string         `bson:"friend,omitempty"`
	Giruda       string         `bson:"giruda"`
	Score        int            `bson:"score"`
	ContractMade bool           `bson:"contract_made"`
	Players      []PlayerRecord `bson:"players"`
	PlayerIDs    []string       `bson:"player_ids"`
	FinishedAt   time.Time      `bson:"finished_at"`
}

// PlayerRecord 归档中的玩家结果
type PlayerRecord struct {
	ID     string `bson:"id"`
	Name   string `bson:"name"`
	Role   string `bson:"role"`
	Points int    `bson:"points"`
	Won    bool   `bson:"won"`
}

// NewRoundRecord 将结算结果转换为归档文档
func NewRoundRecord(result *types.RoundResult) *RoundRecord {
	record := &RoundRecord{
		RoomID:       result.RoomID,
		President:    result.President,
		Friend:       result.Friend,
		Giruda:       result.Giruda,
		Score:        result.Score,
		ContractMade: result.ContractMade,
		Players:      make([]PlayerRecord, 0, len(result.Players)),
		PlayerIDs:    make([]string, 0, len(result.Players)),
		FinishedAt:   result.FinishedAt.UTC(),
	}
	for _, p := range result.Players {
		record.Players = append(record.Players, PlayerRecord(p))
		record.PlayerIDs = append(record.PlayerIDs, p.ID)
	}
	return record
}

// MongoArchive 对局归档（MongoDB）
type MongoArchive struct {
	rounds *mongo.Collection
}

// NewMongoArchive 创建对局归档
func NewMongoArchive(db *mongo.Database) *MongoArchive {
	return &MongoArchive{rounds: db.Collection(roundsCollection)}
}

// EnsureIndexes 创建查询所需索引，失败只记录日志
func (a *MongoArchive) EnsureIndexes(ctx context.Context) {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "player_ids", Value: 1}, {Key: "finished_at", Value: -1}}},
		{Keys: bson.D{{Key: "room_id", Value: 1}}},
	}
	if _, err := a.rounds.Indexes().CreateMany(ctx, models); err != nil {
		log.Printf("⚠️ 创建归档索引失败: %v", err)
	}
}

// RecordRound 归档一局结果
func (a *MongoArchive) RecordRound(ctx context.Context, result *types.RoundResult) error {
	if _, err := a.rounds.InsertOne(ctx, NewRoundRecord(result)); err != nil {
		return fmt.Errorf("归档对局失败: %w", err)
	}
	return nil
}

// RecentRounds 查询玩家最近的对局
func (a *MongoArchive) RecentRounds(ctx context.Context, playerID string, limit int64) ([]RoundRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := a.rounds.Find(ctx, bson.M{"player_ids": playerID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var records []RoundRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
