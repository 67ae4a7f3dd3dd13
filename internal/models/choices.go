package models

import "github.com/shopspring/decimal"

// AmountChoice is AmountType4Choice: either an instructed amount or an
// equivalent amount. Only the types of this package implement it.
type AmountChoice interface {
	// ControlValue is the value counted into control sums.
	ControlValue() decimal.Decimal
	// Currency is the currency of the amount itself.
	Currency() string
	isAmountChoice()
}

// InstructedAmount is the InstdAmt alternative.
type InstructedAmount struct {
	InstdAmt Amount
}

func (a InstructedAmount) ControlValue() decimal.Decimal { return a.InstdAmt.Value }
func (a InstructedAmount) Currency() string              { return a.InstdAmt.Ccy }
func (InstructedAmount) isAmountChoice()                 {}

// EquivalentAmount is the EqvtAmt alternative: an amount in one currency to
// be transferred in another.
type EquivalentAmount struct {
	Amt      Amount
	CcyOfTrf string
}

func (a EquivalentAmount) ControlValue() decimal.Decimal { return a.Amt.Value }
func (a EquivalentAmount) Currency() string              { return a.Amt.Ccy }
func (EquivalentAmount) isAmountChoice()                 {}

// ControlValue returns the value choice contributes to a control sum. A
// missing choice contributes zero.
func ControlValue(choice AmountChoice) decimal.Decimal {
	switch a := choice.(type) {
	case InstructedAmount:
		return a.InstdAmt.Value
	case *InstructedAmount:
		if a != nil {
			return a.InstdAmt.Value
		}
	case EquivalentAmount:
		return a.Amt.Value
	case *EquivalentAmount:
		if a != nil {
			return a.Amt.Value
		}
	}
	return decimal.Zero
}

// DateChoice is DateAndDateTime2Choice, used for ReqdExctnDt.
type DateChoice interface {
	// Value returns the ISO text of the chosen alternative.
	Value() string
	isDateChoice()
}

// ExecutionDate is the Dt alternative (YYYY-MM-DD).
type ExecutionDate struct {
	Dt string
}

func (d ExecutionDate) Value() string { return d.Dt }
func (ExecutionDate) isDateChoice()   {}

// ExecutionDateTime is the DtTm alternative.
type ExecutionDateTime struct {
	DtTm string
}

func (d ExecutionDateTime) Value() string { return d.DtTm }
func (ExecutionDateTime) isDateChoice()   {}

// CodeOrProprietary holds a choice between an external code and a
// proprietary value. At least one must be set; Cd wins when both are.
type CodeOrProprietary struct {
	Cd    string `yaml:"code,omitempty"`
	Prtry string `yaml:"proprietary,omitempty"`
}

// IsEmpty reports whether neither alternative is set.
func (c CodeOrProprietary) IsEmpty() bool {
	return c.Cd == "" && c.Prtry == ""
}

// Chosen returns the element name and value that get serialized.
func (c CodeOrProprietary) Chosen() (string, string) {
	if c.Cd != "" {
		return "Cd", c.Cd
	}
	if c.Prtry != "" {
		return "Prtry", c.Prtry
	}
	return "", ""
}
