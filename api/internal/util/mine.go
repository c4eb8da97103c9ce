package util

import (
	"mime"
	"net/http"
	"strings"
)

// BaseMIME приводит Content-Type к виду "type/subtype" без параметров и в нижнем регистре.
func BaseMIME(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// SniffMimeHTTP угадывает MIME по первым байтам. AVI и MOV http.DetectContentType
// называет по-своему, поэтому их проверяем руками.
func SniffMimeHTTP(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	// RIFF....AVI
	if len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "AVI " {
		return "video/x-msvideo"
	}
	// ....ftypqt
	if len(b) >= 12 && string(b[4:8]) == "ftyp" {
		if string(b[8:10]) == "qt" {
			return "video/quicktime"
		}
		return "video/mp4"
	}
	if len(b) > 0 {
		return BaseMIME(http.DetectContentType(b))
	}
	return "application/octet-stream"
}

// PickMIME берём явный MIME, затем подсказку, иначе детектим по байтам.
func PickMIME(explicit, hint string, data []byte) string {
	if exp := BaseMIME(explicit); exp != "" && exp != "application/octet-stream" {
		return exp
	}
	if h := BaseMIME(hint); h != "" && h != "application/octet-stream" {
		return h
	}
	return SniffMimeHTTP(data)
}
