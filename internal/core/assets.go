package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryExpense CategoryKind = "expense"
	CategoryIncome  CategoryKind = "income"
	CategoryAsset   CategoryKind = "asset"
)

const (
	MethodCash   PaymentMethodKind = "cash"
	MethodCredit PaymentMethodKind = "credit"
	MethodCrypto PaymentMethodKind = "crypto"
)

const (
	RewardPoints   RewardKind = "points"
	RewardCashback RewardKind = "cashback"
	RewardCredit   RewardKind = "credit"
)

type (
	CategoryKind      string
	PaymentMethodKind string
	RewardKind        string

	Account struct {
		ID             int64
		Name           string
		Kind           string // checking, savings, crypto, ...
		WalletAddr     string
		Balance        float64
		BalanceUpdated time.Time
	}

	Vehicle struct {
		ID                int64
		Name              string
		OwnershipType     string // owned, financed, leased
		Value             float64
		PaymentDate       string
		RemainingPayments int
		PaymentAmount     float64
		Description       string
	}

	Category struct {
		ID        int64
		Name      string
		ParentID  *int64
		Kind      CategoryKind
		IsDefault bool
	}

	// Reward is a per-category benefit attached to a payment method.
	// Frequency applies to credit-type rewards only.
	Reward struct {
		ID              int64
		PaymentMethodID int64
		Kind            RewardKind
		Amount          float64
		CategoryID      int64
		Frequency       string // monthly, annual, semiannual
	}

	// PaymentMethod's rewards follow the same replace-all edit semantics as
	// income deductions.
	PaymentMethod struct {
		ID             int64
		Kind           PaymentMethodKind
		Name           string
		StatementDate  int // day of month, 0 when unset
		PaymentAccount string
		AnnualFee      float64
		TickerSymbol   string
		WalletAddress  string
		Rewards        []Reward
	}

	Investment struct {
		ID          int64
		Name        string
		Ticker      string
		Value       float64
		Totals      MonthlyTotals
		LastUpdated time.Time
	}
)

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (v Vehicle) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrEmptyName
	}
	switch v.OwnershipType {
	case "owned", "financed", "leased":
		return nil
	}
	return errors.New("invalid ownership type")
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	switch c.Kind {
	case CategoryExpense, CategoryIncome, CategoryAsset:
		return nil
	}
	return errors.New("invalid category kind")
}

func (m PaymentMethod) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	switch m.Kind {
	case MethodCash, MethodCredit, MethodCrypto:
	default:
		return errors.New("invalid payment method kind")
	}
	if m.StatementDate < 0 || m.StatementDate > 31 {
		return errors.New("invalid statement date")
	}
	return nil
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(i.Ticker) == "" {
		return errors.New("empty ticker")
	}
	return nil
}
