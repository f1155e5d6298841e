package uploader

import (
	"crypto/rand"
	"fmt"
	"time"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateFilename builds the stored filename for an upload:
// {unix-millis}-{random6}.{ext}. The extension must match the encoding the
// pipeline chose for the bytes.
func GenerateFilename(ext string) string {
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), randomSuffix(6), ext)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf)
}
