package model

// DefaultCustomerType 默认客户类型：直接放在原始数据根目录下的文件归入此类
const DefaultCustomerType = "默认"

// Record 送货单条目（由扫描服务产出，产出后只读）
type Record struct {
	Customer        string  `json:"customer"`          // 客户
	CustomerType    string  `json:"customer_type"`     // 客户类型（一级子目录名，如 现金客户/月结客户）
	Date            string  `json:"date"`              // 日期（原始字符串）
	DeliveryOrderNo string  `json:"delivery_order_no"` // 送货单号
	OrderNo         string  `json:"order_no"`          // 订单号 (PO No)
	ProductName     string  `json:"product_name"`      // 货名
	Spec            string  `json:"spec"`              // 规格
	Unit            string  `json:"unit"`              // 单位
	Quantity        float64 `json:"quantity"`          // 数量
	UnitPrice       float64 `json:"unit_price"`        // 单价
	Amount          float64 `json:"amount"`            // 金额
	SourceFile      string  `json:"source_file"`       // 源文件
}

// ProductSummary 按 货名+规格+单位 汇总的商品数据
type ProductSummary struct {
	ProductName  string  `json:"product_name"`
	Spec         string  `json:"spec"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
	Amount       float64 `json:"amount"`
	Customers    string  `json:"customers"`
}
