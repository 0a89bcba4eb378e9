package diary

import (
	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/models/tag"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/auth"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// DiaryTagsController 日记标签的手动维护与反馈
type DiaryTagsController struct {
	v1.BaseAPIController
}

// NewDiaryTagsController 创建控制器
func NewDiaryTagsController() *DiaryTagsController {
	return &DiaryTagsController{}
}

// Replace 整体替换日记标签
func (ctrl *DiaryTagsController) Replace(c *gin.Context) {
	diaryID, ok := ctrl.ownedDiary(c)
	if !ok {
		return
	}

	request := requests.TagReplaceRequest{}
	if ok := requests.Validate(c, &request, requests.TagReplace); !ok {
		return
	}

	rows, err := repositories.NewTagRepository().ReplaceAll(c.Request.Context(), diaryID, request.IDs())
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Data(c, rows)
}

// Attach 手动添加标签
func (ctrl *DiaryTagsController) Attach(c *gin.Context) {
	diaryID, ok := ctrl.ownedDiary(c)
	if !ok {
		return
	}

	request := requests.TagAttachRequest{}
	if ok := requests.Validate(c, &request, requests.TagAttach); !ok {
		return
	}

	ctrl.attach(c, diaryID, request.TagID, tag.SourceManual)
}

// Detach 移除标签，标签未关联时同样返回成功
func (ctrl *DiaryTagsController) Detach(c *gin.Context) {
	diaryID, ok := ctrl.ownedDiary(c)
	if !ok {
		return
	}
	tagID, ok := ctrl.ParamID(c, "tag_id")
	if !ok {
		return
	}

	if err := repositories.NewTagRepository().Detach(c.Request.Context(), diaryID, tagID); err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Message(c, "标签已移除")
}

// Feedback 对自动标签的确认或否定
// accept 将来源提升为 user_feedback，reject 移除该标签
func (ctrl *DiaryTagsController) Feedback(c *gin.Context) {
	diaryID, ok := ctrl.ownedDiary(c)
	if !ok {
		return
	}
	tagID, ok := ctrl.ParamID(c, "tag_id")
	if !ok {
		return
	}

	request := requests.FeedbackRequest{}
	if ok := requests.Validate(c, &request, requests.Feedback); !ok {
		return
	}

	if request.Action == "reject" {
		if err := repositories.NewTagRepository().Detach(c.Request.Context(), diaryID, tagID); err != nil {
			ctrl.Fail(c, err)
			return
		}
		response.Message(c, "标签已移除")
		return
	}

	ctrl.attach(c, diaryID, tagID, tag.SourceUserFeedback)
}

// attach 标签不存在或属于未购买的标签包时返回 404
func (ctrl *DiaryTagsController) attach(c *gin.Context, diaryID, tagID uint64, source tag.Source) {
	row, err := repositories.NewTagRepository().Attach(c.Request.Context(), diaryID, tagID, source)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Data(c, row)
}

// ownedDiary 校验日记属于当前用户
func (ctrl *DiaryTagsController) ownedDiary(c *gin.Context) (uint64, bool) {
	id, ok := ctrl.ParamID(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := repositories.NewDiaryRepository().Get(c.Request.Context(), auth.CurrentUID(c), id); err != nil {
		ctrl.Fail(c, err)
		return 0, false
	}
	return id, true
}
