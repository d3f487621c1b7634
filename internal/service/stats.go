package service

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/weightlog/internal/db"
)

// DateFormat 是体重记录日期的统一格式。
const DateFormat = "2006-01-02"

// ErrInvalidRange 在时间范围参数不合法时返回
var ErrInvalidRange = errors.New("invalid time range")

// 支持的时间范围
const (
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
	RangeAll = "all"
)

// WeightStats 描述从记录集合派生的统计结果，
// 聚合字段在没有足够数据时为 nil，序列化为 null。
type WeightStats struct {
	Current     *float64 `json:"current"`
	Highest     *float64 `json:"highest"`
	Lowest      *float64 `json:"lowest"`
	Average     *float64 `json:"average"`
	Change7d    *float64 `json:"change7d"`
	ChangeTotal *float64 `json:"changeTotal"`
	TotalDays   int      `json:"totalDays"`
	Streak      int      `json:"streak"`
}

// ComputeStats 根据记录集合计算统计数据，today 为 YYYY-MM-DD 格式的当天日期。
// 空集合返回全部聚合字段为 nil、TotalDays 与 Streak 为 0。
func ComputeStats(records []db.WeightRecord, today string) WeightStats {
	if len(records) == 0 {
		return WeightStats{}
	}

	sorted := sortedByDateDesc(records)

	current := sorted[0].Weight
	highest := current
	lowest := current
	sum := 0.0
	for _, r := range sorted {
		if r.Weight > highest {
			highest = r.Weight
		}
		if r.Weight < lowest {
			lowest = r.Weight
		}
		sum += r.Weight
	}
	average := Round1(sum / float64(len(sorted)))

	stats := WeightStats{
		Current:   &current,
		Highest:   &highest,
		Lowest:    &lowest,
		Average:   &average,
		TotalDays: len(records),
		Streak:    computeStreak(sorted, today),
	}

	// 7 天变化：与「today-7 当天或之前最近一条记录」比较
	if cutoff, ok := shiftDate(today, -7); ok {
		for _, r := range sorted {
			if r.Date <= cutoff {
				change := Round1(current - r.Weight)
				stats.Change7d = &change
				break
			}
		}
	}

	if len(sorted) > 1 {
		change := Round1(current - sorted[len(sorted)-1].Weight)
		stats.ChangeTotal = &change
	}

	return stats
}

// FilterByRange 返回日期在 today-N 天（含）之后的记录，RangeAll 返回全部。
// 不改变输入顺序。
func FilterByRange(records []db.WeightRecord, rng string, today string) ([]db.WeightRecord, error) {
	if rng == "" || rng == RangeAll {
		return records, nil
	}

	var days int
	switch rng {
	case Range7d:
		days = 7
	case Range30d:
		days = 30
	case Range90d:
		days = 90
	default:
		return nil, ErrInvalidRange
	}

	cutoff, ok := shiftDate(today, -days)
	if !ok {
		return nil, ErrInvalidRange
	}

	filtered := make([]db.WeightRecord, 0, len(records))
	for _, r := range records {
		if r.Date >= cutoff {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Round1 四舍五入到一位小数，体重与统计值统一使用。
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// computeStreak 从 today 起向前数连续有记录的天数，遇到第一个缺口停止。
func computeStreak(records []db.WeightRecord, today string) int {
	day, err := time.Parse(DateFormat, today)
	if err != nil {
		return 0
	}

	dates := make(map[string]bool, len(records))
	for _, r := range records {
		dates[r.Date] = true
	}

	streak := 0
	for dates[day.Format(DateFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func sortedByDateDesc(records []db.WeightRecord) []db.WeightRecord {
	sorted := make([]db.WeightRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}

func shiftDate(date string, days int) (string, bool) {
	parsed, err := time.Parse(DateFormat, date)
	if err != nil {
		return "", false
	}
	return parsed.AddDate(0, 0, days).Format(DateFormat), true
}
