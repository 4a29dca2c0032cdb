package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB JSONB类型
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// StringArray JSONB字符串数组类型（保持元素顺序）
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan StringArray: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

// Supplier 供应商
type Supplier struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	Code     string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name     string `json:"name" gorm:"size:200;not null"`
	Category string `json:"category" gorm:"size:50;not null"` // parts/machining/consumables/services/other
	Status   string `json:"status" gorm:"size:20;default:active"`

	// 报价评分输入
	Rating      *float64 `json:"rating" gorm:"type:decimal(3,1)"` // 0-5，可为空
	IsPreferred bool     `json:"is_preferred" gorm:"default:false"`

	// 基本信息
	TaxID        string `json:"tax_id" gorm:"size:50"`
	City         string `json:"city" gorm:"size:50"`
	State        string `json:"state" gorm:"size:50"`
	Address      string `json:"address" gorm:"size:500"`
	PaymentTerms string `json:"payment_terms" gorm:"size:100"`

	// 管理
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Contacts []SupplierContact `json:"contacts,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string {
	return "proc_suppliers"
}

// 供应商分类
const (
	SupplierCategoryParts       = "parts"
	SupplierCategoryMachining   = "machining"
	SupplierCategoryConsumables = "consumables"
	SupplierCategoryServices    = "services"
	SupplierCategoryOther       = "other"
)

// 供应商状态
const (
	SupplierStatusActive      = "active"
	SupplierStatusSuspended   = "suspended"
	SupplierStatusBlacklisted = "blacklisted"
)

// SupplierContact 供应商联系人
type SupplierContact struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	SupplierID string    `json:"supplier_id" gorm:"size:32;not null;index"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Title      string    `json:"title" gorm:"size:100"`
	Phone      string    `json:"phone" gorm:"size:50"`
	Email      string    `json:"email" gorm:"size:200"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SupplierContact) TableName() string {
	return "proc_supplier_contacts"
}
