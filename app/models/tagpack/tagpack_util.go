package tagpack

import (
	"github.com/shopspring/decimal"
)

// PriceDecimal 将最小货币单位换算为元，保留两位小数
func (p *TagPack) PriceDecimal() decimal.Decimal {
	return decimal.New(int64(p.Price), -2)
}

// PriceString 价格展示，如 4.99
func (p *TagPack) PriceString() string {
	return p.PriceDecimal().StringFixed(2)
}
