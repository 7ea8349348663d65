package document

import "context"

// Source yields one candidate copy of the tournament document.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Document, error)
}

// Writer persists the whole tournament document.
type Writer interface {
	Save(ctx context.Context, doc Document) error
}
