package filesystem

import (
	"strings"

	"github.com/saintfish/chardet"
)

// detectCharset names the most likely encoding of data
func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return "unknown"
	}
	return strings.ToLower(result.Charset)
}
