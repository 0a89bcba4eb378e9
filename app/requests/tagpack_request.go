package requests

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// PurchaseRequest 购买标签包
type PurchaseRequest struct {
	ProductID string `json:"product_id" form:"product_id" valid:"product_id"`
}

// Purchase 购买验证
func Purchase(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*PurchaseRequest)
	req.ProductID = strings.TrimSpace(req.ProductID)
	rules := govalidator.MapData{
		"product_id": []string{"required", "max:100"},
	}
	messages := govalidator.MapData{
		"product_id": []string{
			"required:product_id 为必填项",
			"max:product_id 长度不能超过 100 个字符",
		},
	}
	return validate(req, rules, messages)
}

// CheckoutRequest 通过支付渠道下单
type CheckoutRequest struct {
	Provider string `json:"provider" form:"provider" valid:"provider"`
}

// Checkout 下单验证，未指定渠道时使用配置的默认渠道
func Checkout(data interface{}, c *gin.Context) map[string][]string {
	rules := govalidator.MapData{
		"provider": []string{"in:mock,wechat,alipay"},
	}
	messages := govalidator.MapData{
		"provider": []string{"in:支付渠道只能是 mock、wechat 或 alipay"},
	}
	return validate(data, rules, messages)
}
