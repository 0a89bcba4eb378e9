// Package analytics 情绪与标签统计
package analytics

import (
	"time"

	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/analytics"
	"tagmind/pkg/app"
	"tagmind/pkg/auth"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// AnalyticsController 统计控制器
type AnalyticsController struct {
	v1.BaseAPIController
}

// NewAnalyticsController 创建控制器
func NewAnalyticsController() *AnalyticsController {
	return &AnalyticsController{}
}

// Mood 最近 days 天的情绪变化
func (ctrl *AnalyticsController) Mood(c *gin.Context) {
	request := requests.MoodRequest{}
	if ok := requests.Validate(c, &request, requests.Mood); !ok {
		return
	}

	loc := app.Location()
	now := time.Now()
	since := analytics.WindowStart(now, request.Days, loc)

	diaries, err := repositories.NewDiaryRepository().ListSince(c.Request.Context(), auth.CurrentUID(c), since)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, gin.H{
		"days":     request.Days,
		"timezone": loc.String(),
		"timeline": analytics.MoodTimeline(diaries, request.Days, now, loc),
	})
}

// Tags 各标签的使用次数与平均情感
func (ctrl *AnalyticsController) Tags(c *gin.Context) {
	diaries, err := repositories.NewDiaryRepository().ListSince(c.Request.Context(), auth.CurrentUID(c), time.Time{})
	if err != nil {
		response.ServerError(c, err)
		return
	}
	response.Data(c, analytics.TagCorrelation(diaries))
}
