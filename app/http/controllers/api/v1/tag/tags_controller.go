// Package tag 标签管理
package tag

import (
	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/models/tag"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/auth"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// TagsController 标签控制器
type TagsController struct {
	v1.BaseAPIController
}

// NewTagsController 创建控制器
func NewTagsController() *TagsController {
	return &TagsController{}
}

// Index 当前用户可见的标签：基础标签、已购标签包中的标签与自己日记上的标签
func (ctrl *TagsController) Index(c *gin.Context) {
	tags, err := repositories.NewTagRepository().ListAvailable(c.Request.Context(), auth.CurrentUID(c))
	if err != nil {
		response.ServerError(c, err)
		return
	}
	response.Data(c, tags)
}

// Store 按名称查找或创建标签
// 同名标签属于未购买的标签包时返回 403
func (ctrl *TagsController) Store(c *gin.Context) {
	request := requests.TagRequest{}
	if ok := requests.Validate(c, &request, requests.TagSave); !ok {
		return
	}

	category := request.Category
	if category == "" {
		category = tag.DefaultCategory
	}

	repo := repositories.NewTagRepository()
	tagModel, err := repo.FindOrCreate(c.Request.Context(), request.Name, category)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	if tagModel.TagPackID != nil {
		if err := repo.Usable(c.Request.Context(), auth.CurrentUID(c), []uint64{tagModel.ID}); err != nil {
			if repositories.IsNotFound(err) {
				err = repositories.ErrTagLocked
			}
			ctrl.Fail(c, err)
			return
		}
	}
	response.Created(c, tagModel)
}
