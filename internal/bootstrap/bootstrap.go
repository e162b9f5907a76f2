// Package bootstrap wires every document type into a registry.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"comex/internal/doctype/bankmessage"
	"comex/internal/doctype/billoflading"
	"comex/internal/doctype/cashstatement"
	"comex/internal/doctype/commercialinvoice"
	"comex/internal/doctype/declaration"
	"comex/internal/doctype/exchangecontract"
	"comex/internal/doctype/fiscalnote"
	"comex/internal/doctype/packinglist"
	"comex/internal/doctype/proformainvoice"
	"comex/internal/doctype/unknown"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/registry"
	"comex/internal/validator"
)

// Constructors maps each tag to its processor constructor. Registration follows domain.AllDocumentTypes.
var Constructors = map[domain.DocumentType]func(processor.Options) *processor.Processor{
	domain.DocumentTypePackingList:       packinglist.New,
	domain.DocumentTypeCommercialInvoice: commercialinvoice.New,
	domain.DocumentTypeProformaInvoice:   proformainvoice.New,
	domain.DocumentTypeDeclaration:       declaration.New,
	domain.DocumentTypeBankMessage:       bankmessage.New,
	domain.DocumentTypeCashStatement:     cashstatement.New,
	domain.DocumentTypeFiscalNote:        fiscalnote.New,
	domain.DocumentTypeBillOfLading:      billoflading.New,
	domain.DocumentTypeExchangeContract:  exchangecontract.New,
	domain.DocumentTypeUnknown:           unknown.New,
}

// Initialize builds a registry holding one processor per document type. It is called once at startup;
// nothing registers types implicitly.
func Initialize(opts processor.Options, log *zap.Logger) (*registry.Registry, error) {
	reg := registry.New(log)
	if err := Populate(reg, opts); err != nil {
		return nil, err
	}
	return reg, nil
}

// Populate registers every document type into an existing registry, replacing earlier registrations.
func Populate(reg *registry.Registry, opts processor.Options) error {
	for _, tag := range domain.AllDocumentTypes {
		build, ok := Constructors[tag]
		if !ok {
			return fmt.Errorf("bootstrap: no constructor for %s", tag)
		}
		if err := reg.Register(tag, build(opts)); err != nil {
			return fmt.Errorf("bootstrap: registering %s: %w", tag, err)
		}
	}
	return nil
}

// LoadNCM builds the tariff lookup handed to processor.Options.
func LoadNCM(ctx context.Context, repo port.NCMRepository, log *zap.Logger) (*validator.NCMLookup, error) {
	entries, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: loading NCM table: %w", err)
	}
	lookup := validator.NewNCMLookup(entries)
	if log != nil {
		log.Info("ncm table loaded", zap.Int("codes", lookup.Len()))
	}
	return lookup, nil
}
