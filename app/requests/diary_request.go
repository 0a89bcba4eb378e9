package requests

import (
	"encoding/json"
	"strings"

	"tagmind/pkg/app"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/thedevsaddam/govalidator"
)

// DiaryRequest 创建日记，支持 JSON 与 multipart（附带 image 文件）
type DiaryRequest struct {
	Title    string   `json:"title" form:"title" valid:"title"`
	Content  string   `json:"content" form:"content" valid:"content"`
	ImageURL string   `json:"image_url" form:"image_url" valid:"image_url"`
	TagIDs   []uint64 `json:"tag_ids" form:"tag_ids"`
}

// DiarySave 创建日记验证
func DiarySave(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*DiaryRequest)
	req.Title = strings.TrimSpace(req.Title)

	rules := govalidator.MapData{
		"title":     []string{"required", "max:255"},
		"content":   []string{"max:20000"},
		"image_url": []string{"url", "max:1024"},
	}
	messages := govalidator.MapData{
		"title": []string{
			"required:标题为必填项",
			"max:标题长度不能超过 255 个字符",
		},
		"content": []string{
			"max:正文长度不能超过 20000 个字符",
		},
		"image_url": []string{
			"url:图片地址格式不正确",
			"max:图片地址长度不能超过 1024 个字符",
		},
	}
	return validate(req, rules, messages)
}

// DiaryUpdateRequest 部分更新日记，只修改请求中出现的字段
type DiaryUpdateRequest struct {
	Title    string   `json:"title" valid:"title"`
	Content  *string  `json:"content"`
	ImageURL *string  `json:"image_url"`
	TagIDs   []uint64 `json:"tag_ids"`

	present map[string]bool
}

// Has 请求体中是否出现了该字段
func (r *DiaryUpdateRequest) Has(field string) bool {
	return r.present[field]
}

// Fields 需要更新的列，值为 null 的 content / image_url 会被清空
func (r *DiaryUpdateRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Has("title") {
		fields["title"] = r.Title
	}
	if r.Has("content") {
		fields["content"] = r.Content
	}
	if r.Has("image_url") {
		fields["image_url"] = r.ImageURL
	}
	return fields
}

// ValidateDiaryUpdate 解析并验证更新请求，请求体需为 JSON
// 返回 nil 表示验证通过；解析失败与字段错误都以 422 的形式返回
func ValidateDiaryUpdate(c *gin.Context, req *DiaryUpdateRequest) map[string][]string {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		return appendError(nil, "body", "请求体必须是 JSON 对象")
	}
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		return appendError(nil, "body", "请求字段类型不正确: "+err.Error())
	}

	req.present = make(map[string]bool, len(raw))
	for key := range raw {
		req.present[key] = true
	}

	var errs map[string][]string
	if req.Has("title") {
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			errs = appendError(errs, "title", "标题不能为空")
		}
		if len([]rune(req.Title)) > 255 {
			errs = appendError(errs, "title", "标题长度不能超过 255 个字符")
		}
	}
	if req.Content != nil && len([]rune(*req.Content)) > 20000 {
		errs = appendError(errs, "content", "正文长度不能超过 20000 个字符")
	}
	if req.Has("tag_ids") && req.TagIDs == nil {
		// "tag_ids": null 视为清空
		req.TagIDs = []uint64{}
	}
	return errs
}

// DiaryListRequest 日记列表查询参数
type DiaryListRequest struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Date    string `form:"date"`
}

// DiaryList 列表参数验证，并补全默认分页
func DiaryList(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*DiaryListRequest)

	var errs map[string][]string
	if req.Page < 0 {
		errs = appendError(errs, "page", "页码必须大于 0")
	}
	if req.PerPage < 0 || req.PerPage > 100 {
		errs = appendError(errs, "per_page", "每页条数需在 1~100 之间")
	}
	if req.Date != "" {
		if _, err := app.ParseDate(req.Date); err != nil {
			errs = appendError(errs, "date", "日期格式必须为 YYYY-MM-DD")
		}
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PerPage == 0 {
		req.PerPage = 20
	}
	return errs
}

// SearchRequest 搜索参数
type SearchRequest struct {
	Q string `form:"q" valid:"q"`
}

// Search 搜索验证，空白关键词不允许
func Search(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*SearchRequest)
	req.Q = strings.TrimSpace(req.Q)
	rules := govalidator.MapData{
		"q": []string{"required", "max:100"},
	}
	messages := govalidator.MapData{
		"q": []string{
			"required:搜索关键词不能为空",
			"max:搜索关键词长度不能超过 100 个字符",
		},
	}
	return validate(req, rules, messages)
}
