package requests

import "github.com/gin-gonic/gin"

// MoodRequest 情绪统计参数
type MoodRequest struct {
	Days int `form:"days"`
}

// Mood 统计天数验证，默认 30 天
func Mood(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*MoodRequest)
	if req.Days == 0 {
		req.Days = 30
	}
	if req.Days < 1 || req.Days > 365 {
		return appendError(nil, "days", "days 需在 1~365 之间")
	}
	return nil
}
