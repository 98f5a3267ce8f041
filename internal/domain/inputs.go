package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultAssetValue is the pre-filled asset value in dollars.
const DefaultAssetValue = 1_000_000

// LoanTerm is the mortgage term in years.
type LoanTerm int

const (
	LoanTerm15 LoanTerm = 15
	LoanTerm30 LoanTerm = 30
)

func (t LoanTerm) Valid() bool { return t == LoanTerm15 || t == LoanTerm30 }

// ParseLoanTerm accepts "15" or "30".
func ParseLoanTerm(s string) (LoanTerm, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !LoanTerm(n).Valid() {
		return 0, NewParseError("loan term must be 15 or 30 years", err)
	}
	return LoanTerm(n), nil
}

// FinancialInputs are the loan parameters submitted alongside a coordinate.
type FinancialInputs struct {
	AssetValue float64
	LoanTerm   LoanTerm
	PropertyID string // optional; a label is synthesized from the coordinate when empty
}

func DefaultFinancialInputs() FinancialInputs {
	return FinancialInputs{AssetValue: DefaultAssetValue, LoanTerm: LoanTerm30}
}

func (f FinancialInputs) Validate() error {
	if !isFinite(f.AssetValue) || f.AssetValue <= 0 {
		return NewParseError("asset value must be a positive number", fmt.Errorf("got %v", f.AssetValue))
	}
	if !f.LoanTerm.Valid() {
		return NewParseError("loan term must be 15 or 30 years", fmt.Errorf("got %d", f.LoanTerm))
	}
	return nil
}
