// Package tagpack 标签包目录、购买与下单
package tagpack

import (
	"time"

	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/models/tag"
	"tagmind/app/models/tagpack"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/auth"
	"tagmind/pkg/payment"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// TagPacksController 标签包控制器
type TagPacksController struct {
	v1.BaseAPIController
	checkout *payment.Checkout
}

// NewTagPacksController 创建控制器
func NewTagPacksController(checkout *payment.Checkout) *TagPacksController {
	return &TagPacksController{checkout: checkout}
}

// packItem 目录中的标签包，附带当前用户是否已拥有
type packItem struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       int       `json:"price"`
	PriceText   string    `json:"price_text"`
	ProductID   string    `json:"product_id"`
	Owned       bool      `json:"owned"`
	Tags        []tag.Tag `json:"tags"`
}

func newPackItem(p tagpack.TagPack, owned bool) packItem {
	tags := p.Tags
	if tags == nil {
		tags = []tag.Tag{}
	}
	return packItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PriceText:   p.PriceString(),
		ProductID:   p.ProductID,
		Owned:       owned,
		Tags:        tags,
	}
}

// Index 标签包目录
func (ctrl *TagPacksController) Index(c *gin.Context) {
	repo := repositories.NewTagPackRepository()
	packs, err := repo.All(c.Request.Context())
	if err != nil {
		response.ServerError(c, err)
		return
	}
	owned, err := repo.OwnedIDs(c.Request.Context(), auth.CurrentUID(c))
	if err != nil {
		response.ServerError(c, err)
		return
	}

	items := make([]packItem, 0, len(packs))
	for _, p := range packs {
		items = append(items, newPackItem(p, owned[p.ID]))
	}
	response.Data(c, items)
}

// Mine 当前用户已购买的标签包
func (ctrl *TagPacksController) Mine(c *gin.Context) {
	records, err := repositories.NewTagPackRepository().Owned(c.Request.Context(), auth.CurrentUID(c))
	if err != nil {
		response.ServerError(c, err)
		return
	}

	type ownedItem struct {
		packItem
		PurchasedAt time.Time `json:"purchased_at"`
	}
	items := make([]ownedItem, 0, len(records))
	for _, r := range records {
		if r.TagPack == nil {
			continue
		}
		items = append(items, ownedItem{packItem: newPackItem(*r.TagPack, true), PurchasedAt: r.PurchasedAt})
	}
	response.Data(c, items)
}

// Purchase 直接购买，商店收据校验由客户端完成
func (ctrl *TagPacksController) Purchase(c *gin.Context) {
	request := requests.PurchaseRequest{}
	if ok := requests.Validate(c, &request, requests.Purchase); !ok {
		return
	}

	record, err := repositories.NewTagPackRepository().Purchase(c.Request.Context(), auth.CurrentUID(c), request.ProductID)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Created(c, record, "购买成功")
}

// Checkout 通过支付渠道下单
func (ctrl *TagPacksController) Checkout(c *gin.Context) {
	request := requests.CheckoutRequest{}
	if ok := requests.Validate(c, &request, requests.Checkout); !ok {
		return
	}

	result, err := ctrl.checkout.Checkout(c.Request.Context(), auth.CurrentUID(c), c.Param("product_id"), request.Provider)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}

	if result.Paid() {
		response.Created(c, result, "购买成功")
		return
	}
	response.Accepted(c, result, "订单已创建，请完成支付")
}
