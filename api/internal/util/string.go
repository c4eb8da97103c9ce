package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

// TruncateUTF16 обрезает строку до max UTF-16 единиц (так длину считает Telegram) и добавляет многоточие.
func TruncateUTF16(s string, max int) string {
	if max <= 0 {
		return ""
	}
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	if n <= max {
		return s
	}
	n = 0
	for i, r := range s {
		l := utf16.RuneLen(r)
		if n+l > max-1 { // место под "…"
			return s[:i] + "…"
		}
		n += l
	}
	return s
}

// SHA256Hex hex-дайджест содержимого (ключ для журнала анализов).
func SHA256Hex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// ShortHash 16-символьный хэш для секретного пути вебхука.
func ShortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:16]
}

// BearerToken достаёт токен из "Authorization: Bearer <token>".
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
