package order

import (
	"context"

	domorder "github.com/oculare/shop-backend/internal/domain/order"
)

type IDGenerator interface {
	NewID() string
}

// Invoice is the rendered artifact for one successful order. Filenames
// are unique per creation event.
type Invoice struct {
	Filename string
	Path     string
}

// InvoiceRenderer produces the PDF invoice document for an order.
type InvoiceRenderer interface {
	Render(ctx context.Context, o *domorder.Order) (*Invoice, error)
}

type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// Notifier sends a templated email with an optional attachment.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
