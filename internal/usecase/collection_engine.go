package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
)

// CollectionEngine applies single-record mutations to the stored document.
// Every call reads a fresh copy, changes it, writes the whole document back
// and then drops the read cache. Nothing is locked between calls; the writer's
// version check is the only guard against concurrent edits.
//
// When the writer can also read (the content repository does), the fresh copy
// comes from the writer itself, so a mutation never starts from a mirror that
// lags behind the last commit.
type CollectionEngine struct {
	store  *DocumentStore
	writer document.Writer
	reader document.Source
	logger *logging.Logger
}

func NewCollectionEngine(store *DocumentStore, writer document.Writer, logger *logging.Logger) *CollectionEngine {
	if logger == nil {
		logger = logging.Default()
	}

	engine := &CollectionEngine{
		store:  store,
		writer: writer,
		logger: logger,
	}
	if reader, ok := writer.(document.Source); ok {
		engine.reader = reader
	}
	return engine
}

// Upsert shallow-merges patch into the record with the given id, appending a
// new record when none exists. For settings the id is ignored. The id in the
// path always wins over an id inside the patch.
func (e *CollectionEngine) Upsert(ctx context.Context, collection document.Collection, id int64, patch document.Record) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionEngine.Upsert")
	defer span.End()

	if !collection.IsSingleton() && id <= 0 {
		return fmt.Errorf("%w: id must be greater than zero", ErrInvalidInput)
	}
	patch = patch.Clone()
	if patch == nil {
		patch = document.Record{}
	}
	delete(patch, document.KeyID)

	return e.mutate(ctx, "upsert", collection, id, func(doc *document.Document) error {
		if err := doc.Upsert(collection, id, patch); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil
	})
}

// Remove drops every record with the given id. Removing an id that does not
// exist still rewrites the document.
func (e *CollectionEngine) Remove(ctx context.Context, collection document.Collection, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectionEngine.Remove")
	defer span.End()

	if collection.IsSingleton() {
		return fmt.Errorf("%w: %s cannot be deleted", ErrUnsupportedOperation, collection)
	}

	return e.mutate(ctx, "remove", collection, id, func(doc *document.Document) error {
		removed, err := doc.Remove(collection, id)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if removed == 0 {
			e.logger.DebugContext(ctx, "remove matched no record", "collection", collection, "id", id)
		}
		return nil
	})
}

func (e *CollectionEngine) mutate(
	ctx context.Context,
	op string,
	collection document.Collection,
	id int64,
	apply func(doc *document.Document) error,
) error {
	if e.writer == nil {
		return fmt.Errorf("%w: no document writer", ErrConfiguration)
	}

	snap, err := e.latest(ctx)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	if snap.Degraded {
		return fmt.Errorf("%w: refusing to overwrite repository with the default document", ErrDocumentUnavailable)
	}

	doc := snap.Document
	if err := apply(&doc); err != nil {
		return err
	}

	if err := e.writer.Save(ctx, doc); err != nil {
		e.logger.WarnContext(ctx, "save tournament document failed",
			"op", op,
			"collection", collection,
			"id", id,
			"error", err,
		)
		return fmt.Errorf("save document: %w", err)
	}

	e.store.Invalidate(ctx)
	e.logger.InfoContext(ctx, "tournament document updated",
		"op", op,
		"collection", collection,
		"id", id,
		"source", snap.Source,
	)
	return nil
}

// latest reads the committed document from the writer when it can read, and
// from the store's sources otherwise. A repository without the document yet
// is seeded from the store's sources.
func (e *CollectionEngine) latest(ctx context.Context) (document.Snapshot, error) {
	if e.reader == nil {
		return e.store.Fetch(ctx)
	}

	doc, err := e.reader.Fetch(ctx)
	if errors.Is(err, ErrNotFound) {
		e.logger.InfoContext(ctx, "repository has no tournament document yet, seeding from sources",
			"source", e.reader.Name(),
		)
		return e.store.Fetch(ctx)
	}
	if err != nil {
		return document.Snapshot{}, fmt.Errorf("read %s: %w", e.reader.Name(), err)
	}

	doc.Normalize()
	return document.Snapshot{Document: doc, Source: e.reader.Name()}, nil
}
