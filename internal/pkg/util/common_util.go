package util

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// GetMidnight 返回 t 当天零点 (UTC)
func GetMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PercentageChange 环比变化百分数，保留两位小数
func PercentageChange(current, previous int64) float64 {
	switch {
	case previous > 0:
		change := float64(current-previous) / float64(previous) * 100
		return math.Round(change*100) / 100
	case previous == 0 && current > 0:
		return 100
	default:
		return 0
	}
}

// NormalizeTags 解析逗号分隔的标签串：转小写、去空格、去重，保持原顺序
func NormalizeTags(raw string) []string {
	tagSet := make(map[string]struct{})
	tags := make([]string, 0)

	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.Join(strings.Fields(part), ""))
		if name == "" {
			continue
		}
		if _, exists := tagSet[name]; exists {
			continue
		}
		tagSet[name] = struct{}{}
		tags = append(tags, name)
	}

	return tags
}

// ParseUint64List 解析逗号分隔的 id 列表
func ParseUint64List(raw string) ([]uint64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
