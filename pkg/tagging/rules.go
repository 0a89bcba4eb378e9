// Package tagging 日记写入后的自动打标签
package tagging

import (
	"sort"
	"strings"
)

// Rule 关键词规则，正文包含任一关键词即打上 Tag
type Rule struct {
	Tag      string
	Category string
	Keywords []string
}

// DefaultRules 内置关键词规则
var DefaultRules = []Rule{
	{Tag: "운동", Category: "activity", Keywords: []string{"운동"}},
	{Tag: "공부", Category: "activity", Keywords: []string{"공부"}},
	{Tag: "회의", Category: "work", Keywords: []string{"회의"}},
	{Tag: "행복", Category: "emotion", Keywords: []string{"행복", "기쁨"}},
	{Tag: "슬픔", Category: "emotion", Keywords: []string{"슬픔", "우울"}},
}

// Match 返回命中的规则，每个标签最多一次，按标签名排序
func Match(rules []Rule, text string) []Rule {
	seen := make(map[string]bool)
	matched := make([]Rule, 0)
	for _, rule := range rules {
		if seen[rule.Tag] {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				seen[rule.Tag] = true
				matched = append(matched, rule)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Tag < matched[j].Tag
	})
	return matched
}
