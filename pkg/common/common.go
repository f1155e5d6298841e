package common

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// CommonResponse is a lightweight response wrapper used by HTTP handlers.
type CommonResponse struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg,omitempty"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// ReturnOK creates a HTTP 200 response.
func (CommonResponse) ReturnOK() CommonResponse {
	return CommonResponse{Code: 200}
}

// GetMD5Hash returns the lowercase hex MD5 hash of the input bytes. Used as
// the content checksum recorded on stored assets.
func GetMD5Hash(input []byte) string {
	sum := md5.Sum(input)
	return hex.EncodeToString(sum[:])
}

type contextKey string

const userIDKey contextKey = "user_id"

// ContextWithUserID stores the admin user ID into context.
func ContextWithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// GetUserID retrieves the admin user ID from context.
func GetUserID(ctx context.Context) (int, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case string:
		id, err := strconv.Atoi(val)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
