package requests

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// TagRequest 创建标签
type TagRequest struct {
	Name     string `json:"name" form:"name" valid:"name"`
	Category string `json:"category" form:"category" valid:"category"`
}

// TagSave 创建标签验证
func TagSave(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*TagRequest)
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	rules := govalidator.MapData{
		"name":     []string{"required", "max:100"},
		"category": []string{"max:50"},
	}
	messages := govalidator.MapData{
		"name": []string{
			"required:标签名为必填项",
			"max:标签名长度不能超过 100 个字符",
		},
		"category": []string{
			"max:分类长度不能超过 50 个字符",
		},
	}
	return validate(req, rules, messages)
}

// TagAttachRequest 为日记添加单个标签
type TagAttachRequest struct {
	TagID uint64 `json:"tag_id" form:"tag_id" valid:"tag_id"`
}

// TagAttach 添加标签验证
func TagAttach(data interface{}, c *gin.Context) map[string][]string {
	rules := govalidator.MapData{
		"tag_id": []string{"required"},
	}
	messages := govalidator.MapData{
		"tag_id": []string{"required:tag_id 为必填项"},
	}
	return validate(data, rules, messages)
}

// TagReplaceRequest 整体替换日记标签，空数组表示清空
type TagReplaceRequest struct {
	TagIDs *[]uint64 `json:"tag_ids"`
}

// TagReplace 替换标签验证，tag_ids 字段必须出现
func TagReplace(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*TagReplaceRequest)
	if req.TagIDs == nil {
		return appendError(nil, "tag_ids", "tag_ids 为必填项，清空标签请传空数组")
	}
	return nil
}

// IDs 去掉指针后的标签 ID
func (r *TagReplaceRequest) IDs() []uint64 {
	if r.TagIDs == nil {
		return []uint64{}
	}
	return *r.TagIDs
}

// FeedbackRequest 用户对自动标签的反馈
type FeedbackRequest struct {
	Action string `json:"action" form:"action" valid:"action"`
}

// Feedback 反馈验证
func Feedback(data interface{}, c *gin.Context) map[string][]string {
	rules := govalidator.MapData{
		"action": []string{"required", "in:accept,reject"},
	}
	messages := govalidator.MapData{
		"action": []string{
			"required:action 为必填项",
			"in:action 只能是 accept 或 reject",
		},
	}
	return validate(data, rules, messages)
}
