package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	apporder "github.com/oculare/shop-backend/internal/application/order"
	"github.com/oculare/shop-backend/internal/domain/catalog"
	domorder "github.com/oculare/shop-backend/internal/domain/order"
)

// PDFRenderer writes one PDF invoice per successful order into dir.
// Filenames carry a nanosecond timestamp so each invocation produces a
// distinct artifact.
type PDFRenderer struct {
	dir string
}

func NewPDFRenderer(dir string) (*PDFRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("invoice dir: %w", err)
	}
	return &PDFRenderer{dir: dir}, nil
}

func (r *PDFRenderer) Render(ctx context.Context, o *domorder.Order) (*apporder.Invoice, error) {
	_ = ctx

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Purchase Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 14)
	line := func(format string, args ...any) {
		pdf.CellFormat(0, 8, fmt.Sprintf(format, args...), "", 1, "L", false, 0, "")
	}
	line("Store: %s", catalog.StoreName)
	line("Customer: %s", o.CustomerName)
	line("Email: %s", o.Email)
	line("Phone: %s", o.Phone)
	line("Address: %s", o.Address)
	line("Product: %s", o.Product)
	line("Quantity: %d", o.Quantity)
	line("Unit price: %s", catalog.FormatAmount(catalog.UnitPrice()))
	line("Total: %s", catalog.FormatAmount(catalog.Total(o.Quantity)))
	line("Date: %s", o.CreatedAt.Format(time.RFC3339))

	filename := fmt.Sprintf("invoice_%d.pdf", time.Now().UnixNano())
	path := filepath.Join(r.dir, filename)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}

	return &apporder.Invoice{
		Filename: filename,
		Path:     path,
	}, nil
}
