package util

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RequestDeadline таймаут запроса: заголовок X-Request-Timeout (сек), затем ?timeoutSec=, иначе def.
// Клиент может только сократить таймаут: значение больше def обрезается до def.
func RequestDeadline(r *http.Request, def time.Duration) time.Duration {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if ts == "" {
		return def
	}
	v, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64)
	if err != nil || v <= 0 || v > math.MaxInt64/int64(time.Second) {
		return def
	}
	d := time.Duration(v) * time.Second
	if def > 0 {
		return min(d, def)
	}
	return d
}
