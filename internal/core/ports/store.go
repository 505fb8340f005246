package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is the generic unit of storage: a field-name to value mapping.
// Strongly-typed models live at the service layer; the DAL itself is
// collection-agnostic.
type Document = bson.M

// FindOptions tunes ReadMany. Page/PageSize implement offset pagination:
// skip = (page-1)*pageSize when page > 0. ReadMany deliberately returns no
// total count; callers needing metadata use QueryReadPaged.
type FindOptions struct {
	Projection Document
	Sort       bson.D
	Page       int64
	PageSize   int64
}

// UpdateOp describes a single update, either by record id or by filter.
// Exactly one of RecordID or Filter must resolve to a non-empty filter.
type UpdateOp struct {
	RecordID string
	Filter   Document
	Update   Document
	Upsert   bool
}

// PageMetadata is the paging block computed by the fan-out-and-count
// aggregation wrap.
type PageMetadata struct {
	CurrentPage  int64 `json:"current_page" bson:"current_page"`
	PageSize     int64 `json:"page_size" bson:"page_size"`
	TotalRecords int64 `json:"total_records" bson:"total_records"`
	HasNextPage  bool  `json:"has_next_page" bson:"has_next_page"`
}

// PagedResult is a page of documents plus its metadata, produced in a
// single database round trip.
type PagedResult struct {
	Data     []Document   `json:"data" bson:"data"`
	Metadata PageMetadata `json:"metadata" bson:"metadata"`
}

// DataStore is the collection-agnostic data access layer. Every write path
// stamps created_at/updated_at uniformly; no caller can bypass the
// convention. Soft delete (is_deleted) is a caller-side filter convention;
// reads do not filter on it automatically.
type DataStore interface {
	// CreateOne inserts doc, assigning _id/created_at/updated_at/is_deleted
	// defaults. Inside a transaction it returns only {_id}; otherwise it
	// re-reads the stored document filtered by projection.
	CreateOne(ctx context.Context, collection string, doc Document, projection Document) (Document, error)
	CreateMany(ctx context.Context, collection string, docs []Document) ([]string, error)

	// ReadOne returns an empty Document, not an error, when nothing matches.
	ReadOne(ctx context.Context, collection string, filter, projection Document) (Document, error)
	ReadMany(ctx context.Context, collection string, filter Document, opts FindOptions) ([]Document, error)

	// UpdateOne returns the post-update document.
	UpdateOne(ctx context.Context, collection string, op UpdateOp, projection Document) (Document, error)
	UpdateMany(ctx context.Context, collection string, filter, update Document, upsert bool) (int64, error)

	// DeleteOne performs a physical delete and returns the deleted document.
	DeleteOne(ctx context.Context, collection string, recordID string, filter Document) (Document, error)
	DeleteMany(ctx context.Context, collection string, filter Document) (int64, error)

	Count(ctx context.Context, collection string, filter Document) (int64, error)
	Distinct(ctx context.Context, collection, field string) ([]interface{}, error)

	// QueryRead runs pipeline with plain skip/limit paging and no count.
	QueryRead(ctx context.Context, collection string, pipeline []Document, page, pageSize int64) ([]Document, error)
	// QueryReadPaged and AggregatePipeline wrap pipeline with the
	// fan-out-and-count stage: one extra document is fetched to detect a
	// next page without a second count query.
	QueryReadPaged(ctx context.Context, collection string, pipeline []Document, page, pageSize int64) (*PagedResult, error)
	AggregatePipeline(ctx context.Context, collection string, pipeline []Document, page, pageSize int64) (*PagedResult, error)

	// BulkWrite executes prebuilt update descriptors in one batch, each
	// augmented exactly like UpdateOne.
	BulkWrite(ctx context.Context, collection string, ops []UpdateOp) (int64, error)

	// WithTransaction runs fn inside a database transaction. DataStore
	// calls made with the callback's context join the transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
