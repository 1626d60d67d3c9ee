package quotes

import (
	"context"

	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
)

// PDFUseCase genera la representación PDF de una cotización.
type PDFUseCase struct {
	local       repository.QuoteLocalRepository
	generator   QuotePDFGenerator
	companyName string
}

// NewPDFUseCase construye el caso de uso de PDF.
func NewPDFUseCase(local repository.QuoteLocalRepository, generator QuotePDFGenerator, companyName string) *PDFUseCase {
	return &PDFUseCase{local: local, generator: generator, companyName: companyName}
}

// Generate devuelve los bytes del PDF de la cotización.
func (uc *PDFUseCase) Generate(ctx context.Context, id string) ([]byte, error) {
	q, err := uc.local.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateQuotePDF(ctx, q, uc.companyName)
}
