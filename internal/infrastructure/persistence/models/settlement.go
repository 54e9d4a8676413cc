package models

import (
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SettlementModel is the persistence model for the Settlement aggregate root.
// The (worker_id, type, civil_day) unique index is what makes CreateIfAbsent safe
// under concurrent submissions.
type SettlementModel struct {
	BaseModel
	WorkerID         uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_settlements_worker_type_day,priority:1"`
	Type             string                    `gorm:"type:varchar(32);not null;uniqueIndex:idx_settlements_worker_type_day,priority:2"`
	CivilDay         time.Time                 `gorm:"type:date;not null;uniqueIndex:idx_settlements_worker_type_day,priority:3"`
	TotalSales       decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	TotalCollections decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	TotalCash        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	TotalOther       decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	TotalVolume      decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	TotalUnits       int64                     `gorm:"not null;default:0"`
	CategorySnapshot datatypes.JSON            `gorm:"column:category_snapshot"`
	SalesSnapshot    datatypes.JSON            `gorm:"column:sales_snapshot"`
	State            string                    `gorm:"type:varchar(16);not null;default:'pending';index"`
	Notes            string                    `gorm:"type:text"`
	Worker           *WorkerModel              `gorm:"foreignKey:WorkerID;references:ID"`
	LineItems        []SettlementLineItemModel `gorm:"foreignKey:SettlementID;references:ID"`
	Deposits         []SettlementDepositModel  `gorm:"foreignKey:SettlementID;references:ID"`
}

// TableName returns the table name for GORM
func (SettlementModel) TableName() string {
	return "settlements"
}

// ToDomain converts the persistence model to a domain Settlement
func (m *SettlementModel) ToDomain() *settlement.Settlement {
	s := &settlement.Settlement{
		BaseEntity: m.BaseModel.ToDomain(),
		WorkerID:   m.WorkerID,
		Type:       settlement.Type(m.Type),
		Day:        settlement.CivilDateFromTime(m.CivilDay),
		Totals: settlement.DeclaredTotals{
			Sales:       m.TotalSales,
			Collections: m.TotalCollections,
			Cash:        m.TotalCash,
			Other:       m.TotalOther,
			Volume:      m.TotalVolume,
			Units:       m.TotalUnits,
		},
		CategorySnapshot: []byte(m.CategorySnapshot),
		SalesSnapshot:    []byte(m.SalesSnapshot),
		State:            settlement.State(m.State),
		Notes:            m.Notes,
		LineItems:        make([]settlement.LineItem, len(m.LineItems)),
		Deposits:         make([]settlement.Deposit, len(m.Deposits)),
	}
	if m.Worker != nil {
		s.Worker = m.Worker.ToDomain()
	}
	for i := range m.LineItems {
		s.LineItems[i] = m.LineItems[i].ToDomain()
	}
	for i := range m.Deposits {
		s.Deposits[i] = m.Deposits[i].ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Settlement.
// The worker association is never written.
func (m *SettlementModel) FromDomain(s *settlement.Settlement) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.WorkerID = s.WorkerID
	m.Type = string(s.Type)
	m.CivilDay = s.Day.Time()
	m.TotalSales = s.Totals.Sales
	m.TotalCollections = s.Totals.Collections
	m.TotalCash = s.Totals.Cash
	m.TotalOther = s.Totals.Other
	m.TotalVolume = s.Totals.Volume
	m.TotalUnits = s.Totals.Units
	m.CategorySnapshot = jsonOrNil(s.CategorySnapshot)
	m.SalesSnapshot = jsonOrNil(s.SalesSnapshot)
	m.State = string(s.State)
	m.Notes = s.Notes
	m.LineItems = make([]SettlementLineItemModel, len(s.LineItems))
	for i, item := range s.LineItems {
		m.LineItems[i].FromDomain(item)
	}
	m.Deposits = make([]SettlementDepositModel, len(s.Deposits))
	for i, dep := range s.Deposits {
		m.Deposits[i].FromDomain(dep)
	}
}

// SettlementModelFromDomain creates a new persistence model from a domain Settlement
func SettlementModelFromDomain(s *settlement.Settlement) *SettlementModel {
	m := &SettlementModel{}
	m.FromDomain(s)
	return m
}

// SettlementLineItemModel is the persistence model for a settlement line item
type SettlementLineItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	SettlementID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferenceID   string          `gorm:"type:varchar(64);not null"`
	ReferenceKind string          `gorm:"type:varchar(32);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method        string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SettlementLineItemModel) TableName() string {
	return "settlement_line_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *SettlementLineItemModel) ToDomain() settlement.LineItem {
	return settlement.LineItem{
		ID:            m.ID,
		SettlementID:  m.SettlementID,
		ReferenceID:   m.ReferenceID,
		ReferenceKind: settlement.ReferenceKind(m.ReferenceKind),
		Amount:        m.Amount,
		Method:        m.Method,
	}
}

// FromDomain populates the persistence model from a domain LineItem
func (m *SettlementLineItemModel) FromDomain(item settlement.LineItem) {
	m.ID = item.ID
	m.SettlementID = item.SettlementID
	m.ReferenceID = item.ReferenceID
	m.ReferenceKind = string(item.ReferenceKind)
	m.Amount = item.Amount
	m.Method = item.Method
}

// SettlementDepositModel is the persistence model for a cash deposit
type SettlementDepositModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	SettlementID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Folio         string          `gorm:"type:varchar(64)"`
	RejectedBills decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Coins         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SettlementDepositModel) TableName() string {
	return "settlement_deposits"
}

// ToDomain converts the persistence model to a domain Deposit
func (m *SettlementDepositModel) ToDomain() settlement.Deposit {
	return settlement.Deposit{
		ID:            m.ID,
		SettlementID:  m.SettlementID,
		Amount:        m.Amount,
		Folio:         m.Folio,
		RejectedBills: m.RejectedBills,
		Coins:         m.Coins,
		Total:         m.Total,
	}
}

// FromDomain populates the persistence model from a domain Deposit
func (m *SettlementDepositModel) FromDomain(d settlement.Deposit) {
	m.ID = d.ID
	m.SettlementID = d.SettlementID
	m.Amount = d.Amount
	m.Folio = d.Folio
	m.RejectedBills = d.RejectedBills
	m.Coins = d.Coins
	m.Total = d.Total
}

func jsonOrNil(raw []byte) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	return datatypes.JSON(raw)
}
