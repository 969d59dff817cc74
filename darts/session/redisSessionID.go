// Package session はWebSocket再接続用のセッションIDをRedisで管理します。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// セッションの有効期限
const SessionTTL = 24 * time.Hour

var (
	ErrSessionsDisabled = errors.New("session store is disabled")
	ErrSessionNotFound  = errors.New("session not found or expired")
)

// Info はセッションに保存する端末情報
type Info struct {
	Role     string `json:"role"`
	Nickname string `json:"nickname"`
}

type Store struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewStore は rdb が nil の場合、セッション復旧なしで動くStoreを返す
func NewStore(rdb *redis.Client, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

func key(sessionID string) string {
	return "session:" + sessionID
}

// ValidateSessionID checks the session ID in Redis and returns the stored info.
// A valid session is consumed; the caller is expected to issue a new one.
func (s *Store) ValidateSessionID(ctx context.Context, sessionID string) (*Info, error) {
	if !s.Enabled() {
		return nil, ErrSessionsDisabled
	}
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	sessionInfoJSON, err := s.rdb.Get(ctx, key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		s.logger.Error("Failed to retrieve session info", zap.Error(err))
		return nil, fmt.Errorf("get session: %w", err)
	}

	var info Info
	if err := json.Unmarshal([]byte(sessionInfoJSON), &info); err != nil {
		s.logger.Error("Failed to decode session info", zap.Error(err))
		return nil, fmt.Errorf("decode session: %w", err)
	}

	// 旧セッションの削除
	if err := s.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		s.logger.Warn("Failed to delete old session", zap.Error(err))
	}
	return &info, nil
}

// GenerateAndStoreSessionID はセッションIDを発行してRedisに保存する
func (s *Store) GenerateAndStoreSessionID(ctx context.Context, info Info) (string, error) {
	if !s.Enabled() {
		return "", ErrSessionsDisabled
	}

	sessionID := uuid.New().String()
	sessionInfoJSON, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	if err := s.rdb.Set(ctx, key(sessionID), sessionInfoJSON, SessionTTL).Err(); err != nil {
		s.logger.Error("Error storing session info in Redis", zap.Error(err))
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}
