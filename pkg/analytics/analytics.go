// Package analytics 基于已保存的分析结果做情绪与标签统计
package analytics

import (
	"sort"
	"time"

	"tagmind/app/models/diary"
)

// DayMood 单日情绪
type DayMood struct {
	Date     string   `json:"date"`
	Count    int      `json:"count"`
	Analysed int      `json:"analysed"`
	AvgScore *float64 `json:"avg_score"`
	Dominant string   `json:"dominant_label"`
}

// TagStat 标签与情绪的关联
type TagStat struct {
	TagID    uint64   `json:"tag_id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Usage    int      `json:"usage"`
	Analysed int      `json:"analysed"`
	AvgScore *float64 `json:"avg_score"`
}

// WindowStart 统计窗口的起点：loc 时区下 days-1 天前的零点
func WindowStart(now time.Time, days int, loc *time.Location) time.Time {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return today.AddDate(0, 0, -(days - 1))
}

// score 日记的情感得分，未分析或模拟结果返回 false
func score(d *diary.Diary) (float64, string, bool) {
	if d.Analysis == nil || d.Analysis.IsMock {
		return 0, "", false
	}
	s, ok := d.Analysis.ParsedSentiment()
	if !ok {
		return 0, "", false
	}
	return s.Score, s.Label, true
}

type accumulator struct {
	count    int
	analysed int
	total    float64
	labels   map[string]int
}

func (a *accumulator) add(d *diary.Diary) {
	a.count++
	value, label, ok := score(d)
	if !ok {
		return
	}
	a.analysed++
	a.total += value
	if label != "" {
		if a.labels == nil {
			a.labels = make(map[string]int)
		}
		a.labels[label]++
	}
}

func (a *accumulator) avg() *float64 {
	if a.analysed == 0 {
		return nil
	}
	v := a.total / float64(a.analysed)
	return &v
}

// dominant 出现次数最多的情感标签，次数相同时按字母序
func (a *accumulator) dominant() string {
	best, bestCount := "", 0
	for label, n := range a.labels {
		if n > bestCount || (n == bestCount && label < best) {
			best, bestCount = label, n
		}
	}
	return best
}

// MoodTimeline 按天汇总，从窗口起点到今天每天一条，没有日记的日期计数为 0
func MoodTimeline(diaries []diary.Diary, days int, now time.Time, loc *time.Location) []DayMood {
	start := WindowStart(now, days, loc)
	byDay := make(map[string]*accumulator, days)
	for i := range diaries {
		key := diaries[i].CreatedAt.In(loc).Format(time.DateOnly)
		acc, ok := byDay[key]
		if !ok {
			acc = &accumulator{}
			byDay[key] = acc
		}
		acc.add(&diaries[i])
	}

	timeline := make([]DayMood, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(time.DateOnly)
		day := DayMood{Date: key}
		if acc, ok := byDay[key]; ok {
			day.Count = acc.count
			day.Analysed = acc.analysed
			day.AvgScore = acc.avg()
			day.Dominant = acc.dominant()
		}
		timeline = append(timeline, day)
	}
	return timeline
}

// TagCorrelation 统计每个标签的使用次数与平均情感，按使用次数倒序
func TagCorrelation(diaries []diary.Diary) []TagStat {
	stats := make(map[uint64]*TagStat)
	accs := make(map[uint64]*accumulator)
	for i := range diaries {
		d := &diaries[i]
		for _, dt := range d.DiaryTags {
			stat, ok := stats[dt.TagID]
			if !ok {
				stat = &TagStat{TagID: dt.TagID}
				if dt.Tag != nil {
					stat.Name = dt.Tag.Name
					stat.Category = dt.Tag.Category
				}
				stats[dt.TagID] = stat
				accs[dt.TagID] = &accumulator{}
			}
			accs[dt.TagID].add(d)
		}
	}

	result := make([]TagStat, 0, len(stats))
	for id, stat := range stats {
		acc := accs[id]
		stat.Usage = acc.count
		stat.Analysed = acc.analysed
		stat.AvgScore = acc.avg()
		result = append(result, *stat)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Usage != result[j].Usage {
			return result[i].Usage > result[j].Usage
		}
		return result[i].Name < result[j].Name
	})
	return result
}
