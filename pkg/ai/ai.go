// Package ai 日记文本分析，情感与实体识别
package ai

import (
	"context"
	"strings"
	"time"

	"tagmind/pkg/logger"
)

// Sentiment 情感标签与分值，分值范围 0~1
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Entity 识别出的实体，Type 作为标签分类
type Entity struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Result 分析结果，Mock 为 true 表示分析服务不可用，结果不应入库
type Result struct {
	Sentiment Sentiment `json:"sentiment"`
	Entities  []Entity  `json:"entities"`
	Mock      bool      `json:"mock_data"`
}

// Analyzer 文本分析能力
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}

// Config 分析服务配置
type Config struct {
	Driver     string
	URLs       []string
	APIKeys    []string
	Timeout    time.Duration
	MaxRetries int
}

// New 按驱动创建分析服务，remote 配置不完整时退回 mock
func New(cfg Config) Analyzer {
	if cfg.Driver == "remote" {
		remote, err := NewRemote(cfg)
		if err == nil {
			return remote
		}
		logger.WarnString("AI", "Init", "远程分析服务不可用，使用 mock: "+err.Error())
	}
	return Mock{}
}

// SplitList 将逗号分隔的配置拆分为切片，忽略空白项
func SplitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Mock 占位实现，返回中性情感并标记为 mock
type Mock struct{}

// Analyze 实现 Analyzer
func (Mock) Analyze(ctx context.Context, text string) (*Result, error) {
	return &Result{
		Sentiment: Sentiment{Label: "neutral", Score: 0.5},
		Entities:  []Entity{},
		Mock:      true,
	}, nil
}
