package mapview

import (
	"context"
	"fmt"
)

// Importer fetches features from an external mapping service.
type Importer interface {
	// ImportNode fetches a single node by id.
	ImportNode(ctx context.Context, id int64) ([]Feature, error)
	// ImportQuery fetches the features matched by a service query.
	ImportQuery(ctx context.Context, query string) ([]Feature, error)
}

// UnsupportedImporter is the default Importer. Every call fails with
// ErrNotImplemented.
type UnsupportedImporter struct{}

// ImportNode implements Importer.
func (UnsupportedImporter) ImportNode(context.Context, int64) ([]Feature, error) {
	return nil, ErrNotImplemented
}

// ImportQuery implements Importer.
func (UnsupportedImporter) ImportQuery(context.Context, string) ([]Feature, error) {
	return nil, ErrNotImplemented
}

// ImportNode imports one node through the configured Importer and appends
// the resulting shapes. The store is only changed when the import succeeds.
func (v *MapView) ImportNode(ctx context.Context, id int64) (int, error) {
	features, err := v.importer.ImportNode(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("import node %d: %w", id, err)
	}
	return v.appendFeatures(fmt.Sprintf("node/%d", id), features), nil
}

// ImportQuery imports the result of a query through the configured
// Importer and appends the resulting shapes.
func (v *MapView) ImportQuery(ctx context.Context, query string) (int, error) {
	features, err := v.importer.ImportQuery(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("import query: %w", err)
	}
	return v.appendFeatures("query", features), nil
}
