// Package payment 订单查询
package payment

import (
	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/pkg/auth"
	"tagmind/pkg/payment"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentController 订单控制器
type PaymentController struct {
	v1.BaseAPIController
	checkout *payment.Checkout
}

// NewPaymentController 创建支付控制器
func NewPaymentController(checkout *payment.Checkout) *PaymentController {
	return &PaymentController{
		checkout: checkout,
	}
}

// Show 订单详情，待支付订单会先向渠道同步状态
func (pc *PaymentController) Show(c *gin.Context) {
	o, err := pc.checkout.Sync(c.Request.Context(), auth.CurrentUID(c), c.Param("order_no"))
	if err != nil {
		pc.Fail(c, err)
		return
	}
	response.Data(c, o)
}
