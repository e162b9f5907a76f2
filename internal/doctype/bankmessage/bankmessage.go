// Package bankmessage implements the BANK_MESSAGE document type: a SWIFT customer transfer
// (MT103 style) paying for imported goods. Single-step, header only.
package bankmessage

import (
	"strings"

	"github.com/shopspring/decimal"

	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/validator"
)

// Party is a customer or beneficiary block.
type Party struct {
	Name    string `json:"name"`
	Account string `json:"account"`
	Address string `json:"address"`
	BIC     string `json:"bic"`
}

type Header struct {
	MessageType      string          `json:"message_type"`
	Reference        string          `json:"reference"`
	ValueDate        string          `json:"value_date"`
	Currency         string          `json:"currency"`
	Amount           decimal.Decimal `json:"amount"`
	SenderBIC        string          `json:"sender_bic"`
	ReceiverBIC      string          `json:"receiver_bic"`
	IntermediaryBIC  string          `json:"intermediary_bic"`
	OrderingCustomer Party           `json:"ordering_customer"`
	Beneficiary      Party           `json:"beneficiary"`
	RemittanceInfo   string          `json:"remittance_info"`
	Charges          string          `json:"charges"`
}

type Record struct {
	Header *Header `json:"header"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeBankMessage }

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
	{Ordinal: 1, Name: "message", Target: domain.SectionHeader},
}

var schema = combiner.Schema{Numeric: []string{"amount"}}

// Charge codes of field 71A.
var chargeCodes = map[string]bool{"OUR": true, "SHA": true, "BEN": true}

// Validate checks a transfer message. It carries no tolerances.
func Validate(rec *Record) domain.ValidationResult {
	c := validator.NewCollector()
	h := rec.Header
	if h == nil {
		c.Error("header", domain.CodeMissingHeader, "bank message fields are missing")
		return c.Result()
	}

	validator.Required(c, "reference", h.Reference)
	validator.Date(c, "value_date", h.ValueDate, true)
	validator.Currency(c, "currency", h.Currency, true)
	validator.Positive(c, "amount", h.Amount)
	validator.BIC(c, "sender_bic", h.SenderBIC, false)
	validator.BIC(c, "receiver_bic", h.ReceiverBIC, false)
	validator.BIC(c, "intermediary_bic", h.IntermediaryBIC, false)

	validator.Required(c, "ordering_customer.name", h.OrderingCustomer.Name)
	validator.Required(c, "beneficiary.name", h.Beneficiary.Name)
	validator.Required(c, "beneficiary.account", h.Beneficiary.Account)
	validator.BIC(c, "beneficiary.bic", h.Beneficiary.BIC, false)

	validator.Recommended(c, "remittance_info", h.RemittanceInfo, "reference the commercial invoice paid by this transfer")
	if ch := strings.ToUpper(strings.TrimSpace(h.Charges)); ch != "" && !chargeCodes[ch] {
		c.Warn("charges", "use OUR, SHA or BEN", "charges code %q is not recognized", h.Charges)
	}
	return c.Result()
}

// New builds the BANK_MESSAGE processor.
func New(opts processor.Options) *processor.Processor {
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeBankMessage)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    steps,
		Schema:   schema,
		Decode:   Decode,
		Validate: processor.Typed(Validate),
	}, opts)
}
