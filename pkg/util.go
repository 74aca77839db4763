package hashval

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHumanSize parses sizes like "1024", "1K", "2M", "1.5G" into bytes
func ParseHumanSize(sizeStr string) (int, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	numEnd := 0
	for numEnd < len(sizeStr) && (sizeStr[numEnd] >= '0' && sizeStr[numEnd] <= '9' || sizeStr[numEnd] == '.') {
		numEnd++
	}
	numPart, suffix := sizeStr[:numEnd], sizeStr[numEnd:]
	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier float64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1 << 10
	case "M", "MB":
		multiplier = 1 << 20
	case "G", "GB":
		multiplier = 1 << 30
	default:
		return 0, fmt.Errorf("unknown size suffix %q in %s", suffix, sizeStr)
	}

	size := num * multiplier
	if size < 1 || size > float64(1<<31-1) {
		return 0, fmt.Errorf("size out of range: %s", sizeStr)
	}
	return int(size), nil
}

// maxIovecs is the Linux UIO_MAXIOV limit on iovecs per writev call
const maxIovecs = 1024
