// Package diary 日记、日记标签与搜索
package diary

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/models/diary"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/app"
	"tagmind/pkg/auth"
	"tagmind/pkg/config"
	"tagmind/pkg/logger"
	"tagmind/pkg/queue"
	"tagmind/pkg/response"
	"tagmind/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DiariesController 日记控制器
type DiariesController struct {
	v1.BaseAPIController
	queue    queue.Queue
	uploader storage.Uploader
}

// NewDiariesController 创建控制器，保存后的日记会推送到 q 进行自动打标签
func NewDiariesController(q queue.Queue, uploader storage.Uploader) *DiariesController {
	return &DiariesController{
		queue:    q,
		uploader: uploader,
	}
}

// Index 日记列表
func (ctrl *DiariesController) Index(c *gin.Context) {
	request := requests.DiaryListRequest{}
	if ok := requests.Validate(c, &request, requests.DiaryList); !ok {
		return
	}

	var day *time.Time
	if request.Date != "" {
		// 已在验证阶段确认格式
		d, _ := app.ParseDate(request.Date)
		day = &d
	}

	diaries, total, err := repositories.NewDiaryRepository().List(c.Request.Context(), auth.CurrentUID(c), request.Page, request.PerPage, day)
	if err != nil {
		response.ServerError(c, err)
		return
	}

	response.Data(c, gin.H{
		"diaries": diaries,
		"meta": gin.H{
			"total":    total,
			"page":     request.Page,
			"per_page": request.PerPage,
		},
	})
}

// Show 日记详情
func (ctrl *DiariesController) Show(c *gin.Context) {
	id, ok := ctrl.ParamID(c, "id")
	if !ok {
		return
	}

	d, err := repositories.NewDiaryRepository().Get(c.Request.Context(), auth.CurrentUID(c), id)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Data(c, d)
}

// Store 创建日记，multipart 请求可附带 image 文件
func (ctrl *DiariesController) Store(c *gin.Context) {
	request := requests.DiaryRequest{}
	if ok := requests.Validate(c, &request, requests.DiarySave); !ok {
		return
	}

	imageURL, ok := ctrl.uploadImage(c)
	if !ok {
		return
	}
	if imageURL == "" && request.ImageURL != "" {
		imageURL = request.ImageURL
	}

	uid := auth.CurrentUID(c)
	d := &diary.Diary{
		UserID: uid,
		Title:  request.Title,
	}
	if request.Content != "" {
		d.Content = &request.Content
	}
	if imageURL != "" {
		d.ImageURL = &imageURL
	}

	repo := repositories.NewDiaryRepository()
	if err := repo.Create(c.Request.Context(), d, request.TagIDs); err != nil {
		ctrl.Fail(c, err)
		return
	}

	ctrl.enqueue(c, d.ID, uid)

	created, err := repo.Get(c.Request.Context(), uid, d.ID)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Created(c, created)
}

// Update 部分更新日记，tag_ids 出现时整体替换标签
func (ctrl *DiariesController) Update(c *gin.Context) {
	id, ok := ctrl.ParamID(c, "id")
	if !ok {
		return
	}

	request := requests.DiaryUpdateRequest{}
	if errs := requests.ValidateDiaryUpdate(c, &request); len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	uid := auth.CurrentUID(c)
	repo := repositories.NewDiaryRepository()
	err := repo.Update(c.Request.Context(), uid, id, request.Fields(), request.TagIDs, request.Has("tag_ids"))
	if err != nil {
		ctrl.Fail(c, err)
		return
	}

	// 文本变化后重新分析
	if request.Has("title") || request.Has("content") {
		ctrl.enqueue(c, id, uid)
	}

	updated, err := repo.Get(c.Request.Context(), uid, id)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Data(c, updated)
}

// Delete 删除日记
func (ctrl *DiariesController) Delete(c *gin.Context) {
	id, ok := ctrl.ParamID(c, "id")
	if !ok {
		return
	}

	if err := repositories.NewDiaryRepository().Delete(c.Request.Context(), auth.CurrentUID(c), id); err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Message(c, "删除成功")
}

// uploadImage 处理 multipart 中的 image 文件，没有文件时返回空字符串
// 上传失败时已写入 502 响应
func (ctrl *DiariesController) uploadImage(c *gin.Context) (string, bool) {
	if c.ContentType() != "multipart/form-data" {
		return "", true
	}
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", true
	}
	if err != nil {
		response.BadRequest(c, err, "图片读取失败")
		return "", false
	}
	maxMB := config.GetInt64("storage.max_size", 10)
	if header.Size > maxMB<<20 {
		response.ValidationError(c, map[string][]string{"image": {fmt.Sprintf("图片不能超过 %dMB", maxMB)}})
		return "", false
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, err, "图片读取失败")
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, err, "图片读取失败")
		return "", false
	}

	url, err := ctrl.uploader.Upload(c.Request.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		response.BadGateway(c, err, "image upload failed")
		return "", false
	}
	return url, true
}

// enqueue 推送自动打标签任务，失败只记录日志
func (ctrl *DiariesController) enqueue(c *gin.Context, diaryID, userID uint64) {
	if ctrl.queue == nil {
		return
	}
	task := queue.NewEnrichTask(diaryID, userID)
	if err := ctrl.queue.Push(c.Request.Context(), task); err != nil {
		logger.Warn("Queue",
			zap.String("push", err.Error()),
			zap.Uint64("diary_id", diaryID),
		)
	}
}
