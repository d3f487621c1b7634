package db

import "time"

// WeightRecord 定义体重记录模型
// Date 使用 YYYY-MM-DD 字符串并带唯一索引，同一天最多一条记录
// ID 在创建时生成 UUID，之后对同一天的覆盖写入保持不变
// Weight 以公斤保存，入库前已四舍五入到一位小数
type WeightRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Date      string    `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Weight    float64   `gorm:"not null" json:"weight"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 自定义表名以保持命名一致。
func (WeightRecord) TableName() string {
	return "weight_records"
}
