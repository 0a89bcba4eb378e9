package diary

import (
	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/auth"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// SearchController 日记搜索
type SearchController struct {
	v1.BaseAPIController
}

// NewSearchController 创建控制器
func NewSearchController() *SearchController {
	return &SearchController{}
}

// Index 按标题、正文或标签名搜索
func (ctrl *SearchController) Index(c *gin.Context) {
	request := requests.SearchRequest{}
	if ok := requests.Validate(c, &request, requests.Search); !ok {
		return
	}

	diaries, err := repositories.NewDiaryRepository().Search(c.Request.Context(), auth.CurrentUID(c), request.Q)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Data(c, gin.H{
		"query":   request.Q,
		"diaries": diaries,
	})
}
