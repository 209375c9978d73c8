package ranking

import (
	"regexp"
	"strconv"
)

var (
	hourPattern   = regexp.MustCompile(`(?i)(\d+)\s*hours?`)
	minutePattern = regexp.MustCompile(`(?i)(\d+)\s*min(?:ute(?:s)?)?`)
)

// ParseDurationToMinutes 將自由格式的時間文字（如 "1 hour 15 minutes"）轉為總分鐘數
// 無法解析的部分視為 0，不會返回錯誤
func ParseDurationToMinutes(text string) int {
	return leadingNumber(hourPattern, text)*60 + leadingNumber(minutePattern, text)
}

func leadingNumber(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
