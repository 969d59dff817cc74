package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dartserver/auth"
	"dartserver/darts/session"
	"dartserver/models"

	"go.uber.org/zap"
)

// tokenFromRequest はヘッダーまたはクエリからトークンを取り出す。
// ブラウザのWebSocketはヘッダーを付けられないのでクエリも受け付ける
func tokenFromRequest(r *http.Request) string {
	if token := r.Header.Get("Authorization"); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

func sessionIDFromRequest(r *http.Request) string {
	if id := r.Header.Get("SessionID"); id != "" {
		return id
	}
	return r.URL.Query().Get("sessionID")
}

// FetchClientContext はセッションIDまたはJWTトークンから接続端末の情報を組み立てます。
// セッションを復旧した場合も新しいセッションIDを発行し直します。
func FetchClientContext(ctx context.Context, r *http.Request, key []byte, store *session.Store, logger *zap.Logger) (*models.Client, error) {
	var info *session.Info

	if sessionID := sessionIDFromRequest(r); sessionID != "" && store.Enabled() {
		restored, err := store.ValidateSessionID(ctx, sessionID)
		if err == nil {
			info = restored
			logger.Info("Session restored", zap.String("nickname", info.Nickname), zap.String("role", info.Role))
		} else if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, fmt.Errorf("restore session: %w", err)
		}
	}

	if info == nil {
		claims, err := auth.ParseToken(tokenFromRequest(r), key)
		if err != nil {
			return nil, fmt.Errorf("unauthorized: %w", err)
		}
		info = &session.Info{Role: claims.Role, Nickname: claims.Nickname}
	}

	client := &models.Client{Role: info.Role, Nickname: info.Nickname}
	if store.Enabled() {
		sessionID, err := store.GenerateAndStoreSessionID(ctx, *info)
		if err != nil {
			// セッションが作れなくても接続は続ける
			logger.Error("Failed to generate or store session ID", zap.Error(err))
		}
		client.SessionID = sessionID
	}
	return client, nil
}
