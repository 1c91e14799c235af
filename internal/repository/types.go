package repository

// OrderAggregateFilter 提货列表查询条件
// 字符串条件为子串匹配，Phone 只按数字匹配。
type OrderAggregateFilter struct {
	OrganizationID uint
	CampaignID     uint
	Referrer       string
	Buyer          string
	Code           string
	Phone          string
}

// ReportOrderFilter 报表订单查询条件
type ReportOrderFilter struct {
	OrganizationID uint
	CampaignID     uint
	Referrer       string
	Buyer          string
	Statuses       []string // 为空表示不过滤状态
}

// ItemListFilter 商品目录查询条件
type ItemListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
