package darts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrUnknownMessage = errors.New("unknown message type")

// DecodeCommand は端末から届いたJSONメッセージをRoomのコマンドに変換する。
// 数値はJSONの仕様どおりfloat64として届く
func DecodeCommand(message []byte) (any, error) {
	var msg map[string]interface{}
	if err := json.Unmarshal(message, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	msgType, _ := msg["type"].(string)
	switch msgType {
	case "getState":
		return Query{}, nil
	case "addPlayer":
		name, ok := msg["name"].(string)
		if !ok {
			return nil, fmt.Errorf("addPlayer: name is required")
		}
		return AddPlayer{Name: name}, nil
	case "removePlayer":
		id, err := intField(msg, "id")
		if err != nil {
			return nil, err
		}
		return RemovePlayer{ID: id}, nil
	case "resetGame":
		return ResetGame{}, nil
	case "setStartingScore":
		score, err := intField(msg, "score")
		if err != nil {
			return nil, err
		}
		return SetStartingScore{Score: score}, nil
	case "toggleRunning":
		return ToggleRunning{}, nil
	case "nextTurn":
		return NextTurn{}, nil
	case "undoLast":
		i, err := intField(msg, "playerIndex")
		if err != nil {
			return nil, err
		}
		return UndoLast{PlayerIndex: i}, nil
	case "selectActivePlayer":
		i, err := intField(msg, "index")
		if err != nil {
			return nil, err
		}
		return SelectActivePlayer{Index: i}, nil
	case "pointerHit":
		dx, okX := msg["dx"].(float64)
		dy, okY := msg["dy"].(float64)
		radius, okR := msg["radius"].(float64)
		if !okX || !okY || !okR {
			return nil, fmt.Errorf("pointerHit: dx, dy and radius are required")
		}
		return PointerHit{DX: dx, DY: dy, SurfaceRadius: radius}, nil
	case "manualHit":
		multiplier := 1
		if _, ok := msg["multiplier"]; ok {
			m, err := intField(msg, "multiplier")
			if err != nil {
				return nil, err
			}
			multiplier = m
		}
		// セクターは数値でも "BULL" のような文字列でも受け付ける
		switch sector := msg["sector"].(type) {
		case string:
			return ManualHit{Target: sector, Multiplier: multiplier}, nil
		case float64:
			n, err := intField(msg, "sector")
			if err != nil {
				return nil, err
			}
			return ManualHit{Target: strconv.Itoa(n), Multiplier: multiplier}, nil
		default:
			return nil, fmt.Errorf("manualHit: sector is required")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, msgType)
	}
}

// IsCommand はメッセージが状態を変更するコマンドかどうか
func IsCommand(cmd any) bool {
	switch cmd.(type) {
	case Query, Join, Leave:
		return false
	default:
		return true
	}
}

func intField(msg map[string]interface{}, key string) (int, error) {
	v, ok := msg[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%s: integer field is required", key)
	}
	if v != float64(int(v)) {
		return 0, fmt.Errorf("%s: %v is not an integer", key, v)
	}
	return int(v), nil
}
