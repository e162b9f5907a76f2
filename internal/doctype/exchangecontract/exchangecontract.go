// Package exchangecontract implements the EXCHANGE_CONTRACT document type: the foreign exchange
// contract closing the currency purchase for an import payment. Single-step, header only.
package exchangecontract

import (
	"github.com/shopspring/decimal"

	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/validator"
)

type Header struct {
	ContractNumber string          `json:"contract_number"`
	ContractDate   string          `json:"contract_date"`
	SettlementDate string          `json:"settlement_date"`
	OperationType  string          `json:"operation_type"`
	BuyerName      string          `json:"buyer_name"`
	BuyerCNPJ      string          `json:"buyer_cnpj"`
	BankName       string          `json:"bank_name"`
	Currency       string          `json:"currency"`
	ForeignAmount  decimal.Decimal `json:"foreign_amount"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	NationalAmount decimal.Decimal `json:"national_amount"`
}

type Record struct {
	Header *Header `json:"header"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeExchangeContract }

func (r *Record) Sections() (port.RecordSections, error) {
	return processor.EncodeSections(r.Header, nil, nil)
}

func Decode(s port.RecordSections) (port.CanonicalRecord, error) {
	rec := &Record{}
	if err := processor.DecodeSection("header", s.Header, &rec.Header); err != nil {
		return nil, err
	}
	return rec, nil
}

var steps = []domain.ProcessingStep{
	{Ordinal: 1, Name: "contract", Target: domain.SectionHeader},
}

var schema = combiner.Schema{Numeric: []string{"foreign_amount", "exchange_rate", "national_amount"}}

type Validator struct {
	tol decimal.Decimal
}

func NewValidator(tol validator.Tolerances) *Validator {
	return &Validator{tol: tol.Amount}
}

func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	c := validator.NewCollector()
	h := rec.Header
	if h == nil {
		c.Error("header", domain.CodeMissingHeader, "exchange contract fields are missing")
		return c.Result()
	}

	validator.Required(c, "contract_number", h.ContractNumber)
	validator.Date(c, "contract_date", h.ContractDate, true)
	validator.Date(c, "settlement_date", h.SettlementDate, false)
	validator.CNPJ(c, "buyer_cnpj", h.BuyerCNPJ, true)
	validator.Recommended(c, "bank_name", h.BankName, "fill in the authorized bank")
	validator.Currency(c, "currency", h.Currency, true)
	validator.Positive(c, "foreign_amount", h.ForeignAmount)
	validator.Positive(c, "exchange_rate", h.ExchangeRate)
	validator.Positive(c, "national_amount", h.NationalAmount)

	if c.HasErrors() {
		return c.Result()
	}

	expected := h.ForeignAmount.Mul(h.ExchangeRate)
	if !validator.Within(expected, h.NationalAmount, v.tol) {
		c.Error("consistency.national_amount", domain.CodeExchangeAmountMismatch,
			"national amount %s, foreign amount x rate is %s", h.NationalAmount.StringFixed(2), expected.StringFixed(2))
	}

	contract, _ := validator.ParseDate(h.ContractDate)
	if settlement, ok := validator.ParseDate(h.SettlementDate); ok && settlement.Before(contract) {
		c.Warn("settlement_date", "confirm the settlement date on the contract",
			"settlement date %s precedes contract date %s", h.SettlementDate, h.ContractDate)
	}
	return c.Result()
}

// New builds the EXCHANGE_CONTRACT processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeExchangeContract)
	v := NewValidator(opts.Tolerances)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    steps,
		Schema:   schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
