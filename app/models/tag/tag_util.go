package tag

// Source 标签来源
type Source string

const (
	SourceAIRule       Source = "ai_rule"       // 关键词规则
	SourceAIModel      Source = "ai_model"      // 外部 AI 分析
	SourceManual       Source = "manual"        // 用户手动添加
	SourceUserFeedback Source = "user_feedback" // 用户确认了 AI 的建议
)

// DefaultCategory 外部分析未给出实体类型时使用
const DefaultCategory = "general"

// sourceRank 来源优先级，数值越大越可信
var sourceRank = map[Source]int{
	SourceAIRule:       1,
	SourceAIModel:      2,
	SourceManual:       3,
	SourceUserFeedback: 4,
}

// Valid 是否为已知来源
func (s Source) Valid() bool {
	_, ok := sourceRank[s]
	return ok
}

// Outranks 当前来源是否比 other 更可信
func (s Source) Outranks(other Source) bool {
	return sourceRank[s] > sourceRank[other]
}

// IsPackTag 是否属于某个标签包
func (t *Tag) IsPackTag() bool {
	return t.TagPackID != nil
}
