package telegram

import (
	"strings"
	"sync"
)

// chatKeys хранит API-ключ на чат только в памяти процесса; после рестарта нужно снова /key.
var chatKeys sync.Map // chatID -> string

func setKey(chatID int64, key string) { chatKeys.Store(chatID, key) }

func getKey(chatID int64) string {
	if v, ok := chatKeys.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return ""
}

func forgetKey(chatID int64) { chatKeys.Delete(chatID) }

// keyFor picks the chat's own key, then the deployment default.
func keyFor(chatID int64, fallback string) string {
	if k := getKey(chatID); k != "" {
		return k
	}
	return strings.TrimSpace(fallback)
}
