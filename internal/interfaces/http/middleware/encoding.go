package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// MaxBodyBytes 请求体上限
const MaxBodyBytes = 1 << 20

// EnsureUTF8Body 把非 UTF-8 的请求体按 GBK 解码
// 超过 MaxBodyBytes 的请求体返回 413
// Windows 中文环境下 curl 提交的事件标题常以 GBK 编码发送
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
		c.Request.Body.Close()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatus(http.StatusRequestEntityTooLarge)
				return
			}
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		if !utf8.Valid(body) {
			if decoded, ok := decodeGBK(body); ok {
				body = decoded
			}
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Next()
	}
}

// decodeGBK 解码失败或结果仍非 UTF-8 时返回 false
func decodeGBK(raw []byte) ([]byte, bool) {
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil || !utf8.Valid(decoded) {
		return nil, false
	}
	return decoded, true
}
