package spec

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Financing is how the up-front system cost is paid: Cash or Loan.
type Financing interface {
	Kind() string
}

// Cash pays the full system cost at year 0.
type Cash struct{}

func (Cash) Kind() string { return "cash" }

// Loan finances the system cost less the down payment over TermYears.
type Loan struct {
	TermYears      int     `json:"term_years"`
	RatePct        float64 `json:"rate_pct"`
	DownPaymentPct float64 `json:"down_payment_pct"`
}

func (Loan) Kind() string { return "loan" }

// FinancingDef carries a Financing through YAML and JSON documents as
//
//	financing: {type: loan, term_years: 10, rate_pct: 6.5, down_payment_pct: 20}
//
// Loan fields are rejected when type is cash.
type FinancingDef struct {
	Financing
}

type financingDoc struct {
	Type           string  `yaml:"type" json:"type"`
	TermYears      int     `yaml:"term_years,omitempty" json:"term_years,omitempty"`
	RatePct        float64 `yaml:"rate_pct,omitempty" json:"rate_pct,omitempty"`
	DownPaymentPct float64 `yaml:"down_payment_pct,omitempty" json:"down_payment_pct,omitempty"`
}

// Variant returns the configured financing, Cash when none was given.
func (f FinancingDef) Variant() Financing {
	if f.Financing == nil {
		return Cash{}
	}
	return f.Financing
}

func (f *FinancingDef) UnmarshalYAML(value *yaml.Node) error {
	var doc financingDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	return f.set(doc)
}

func (f FinancingDef) MarshalYAML() (any, error) {
	return f.doc(), nil
}

func (f *FinancingDef) UnmarshalJSON(data []byte) error {
	var doc financingDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return f.set(doc)
}

func (f FinancingDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.doc())
}

func (f *FinancingDef) set(doc financingDoc) error {
	switch doc.Type {
	case "", "cash":
		if doc.TermYears != 0 || doc.RatePct != 0 || doc.DownPaymentPct != 0 {
			return fmt.Errorf("financing: term_years, rate_pct and down_payment_pct only apply to type loan")
		}
		f.Financing = Cash{}
	case "loan":
		f.Financing = Loan{
			TermYears:      doc.TermYears,
			RatePct:        doc.RatePct,
			DownPaymentPct: doc.DownPaymentPct,
		}
	default:
		return fmt.Errorf("financing: unknown type %q (want cash or loan)", doc.Type)
	}
	return nil
}

func (f FinancingDef) doc() financingDoc {
	switch v := f.Variant().(type) {
	case Loan:
		return financingDoc{Type: "loan", TermYears: v.TermYears, RatePct: v.RatePct, DownPaymentPct: v.DownPaymentPct}
	case *Loan:
		return financingDoc{Type: "loan", TermYears: v.TermYears, RatePct: v.RatePct, DownPaymentPct: v.DownPaymentPct}
	default:
		return financingDoc{Type: "cash"}
	}
}
