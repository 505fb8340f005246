// Package store implements the collection-agnostic data access layer over
// MongoDB. All timestamp, soft-delete and upsert augmentation lives here;
// services never touch a mongo collection directly.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wowlabz/accounts-api/internal/core/domain"
	"github.com/wowlabz/accounts-api/internal/core/ports"
	"github.com/wowlabz/accounts-api/internal/pkg/dateutil"
)

// Store is the MongoDB-backed ports.DataStore. Construct once at startup
// and inject; it holds no state beyond the database handle.
type Store struct {
	db *mongo.Database
}

// New returns a Store over db.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func inTransaction(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

// CreateOne inserts one normalized document. Inside a transaction only the
// identifier is returned; the caller already holds the full document.
func (s *Store) CreateOne(ctx context.Context, collection string, doc ports.Document, projection ports.Document) (ports.Document, error) {
	c := s.coll(collection)
	stored := normalizeCreate(doc, dateutil.NowMillis())

	res, err := c.InsertOne(ctx, stored)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", collection, domain.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("%s: insert one: %w", collection, err)
	}
	if res.InsertedID == nil {
		return nil, fmt.Errorf("%s: failed to create: %w", collection, domain.ErrWriteFailed)
	}
	if inTransaction(ctx) {
		return ports.Document{"_id": res.InsertedID}, nil
	}

	var model ports.Document
	findOpts := options.FindOne()
	if len(projection) > 0 {
		findOpts.SetProjection(projection)
	}
	if err := c.FindOne(ctx, bson.M{"_id": res.InsertedID}, findOpts).Decode(&model); err != nil {
		return nil, fmt.Errorf("%s: read back: %w", collection, err)
	}
	return model, nil
}

// CreateMany inserts a normalized batch and returns the generated ids.
// Partial success is not guaranteed beyond the store's own batch behavior.
func (s *Store) CreateMany(ctx context.Context, collection string, docs []ports.Document) ([]string, error) {
	c := s.coll(collection)
	timestamp := dateutil.NowMillis()

	stored := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		stored = append(stored, normalizeCreate(doc, timestamp))
	}

	res, err := c.InsertMany(ctx, stored)
	if err != nil {
		return nil, fmt.Errorf("%s: insert many: %w", collection, domain.ErrWriteFailed)
	}
	if len(res.InsertedIDs) == 0 {
		return nil, fmt.Errorf("%s: failed to create: %w", collection, domain.ErrWriteFailed)
	}

	ids := make([]string, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		ids = append(ids, fmt.Sprintf("%v", id))
	}
	return ids, nil
}

// ReadOne returns the empty document when nothing matches; absence is not
// an error at this layer.
func (s *Store) ReadOne(ctx context.Context, collection string, filter, projection ports.Document) (ports.Document, error) {
	findOpts := options.FindOne()
	if len(projection) > 0 {
		findOpts.SetProjection(projection)
	}

	var model ports.Document
	err := s.coll(collection).FindOne(ctx, filter, findOpts).Decode(&model)
	if err == mongo.ErrNoDocuments {
		return ports.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find one: %w", collection, err)
	}
	return model, nil
}

func (s *Store) ReadMany(ctx context.Context, collection string, filter ports.Document, opts ports.FindOptions) ([]ports.Document, error) {
	findOpts := options.Find()
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Page > 0 && opts.PageSize > 0 {
		findOpts.SetSkip((opts.Page - 1) * opts.PageSize)
	}
	if opts.PageSize > 0 {
		findOpts.SetLimit(opts.PageSize)
	}

	cursor, err := s.coll(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", collection, err)
	}

	models := []ports.Document{}
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", collection, err)
	}
	return models, nil
}

// resolveFilter turns an UpdateOp-style (recordID | filter) pair into a
// concrete non-empty filter.
func resolveFilter(collection, recordID string, filter ports.Document) (ports.Document, error) {
	if recordID != "" {
		return ports.Document{"_id": recordID}, nil
	}
	if len(filter) == 0 {
		return nil, fmt.Errorf("%s: %w", collection, domain.ErrEmptyFilter)
	}
	return filter, nil
}

// UpdateOne runs a find-one-and-update returning the post-update document.
func (s *Store) UpdateOne(ctx context.Context, collection string, op ports.UpdateOp, projection ports.Document) (ports.Document, error) {
	filter, err := resolveFilter(collection, op.RecordID, op.Filter)
	if err != nil {
		return nil, err
	}
	if len(op.Update) == 0 {
		return nil, fmt.Errorf("%s: %w", collection, domain.ErrEmptyUpdate)
	}

	timestamp := dateutil.NowMillis()
	update := prepareUpdate(cloneUpdate(op.Update), timestamp)
	if op.Upsert {
		update = prepareUpsert(update, timestamp)
	}

	findOpts := options.FindOneAndUpdate().
		SetUpsert(op.Upsert).
		SetReturnDocument(options.After)
	if len(projection) > 0 {
		findOpts.SetProjection(projection)
	}

	var model ports.Document
	err = s.coll(collection).FindOneAndUpdate(ctx, filter, update, findOpts).Decode(&model)
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%s: %w", collection, domain.ErrDuplicateKey)
	}
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s: failed to update: %w", collection, domain.ErrWriteFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: update one: %w", collection, err)
	}
	return model, nil
}

func (s *Store) UpdateMany(ctx context.Context, collection string, filter, update ports.Document, upsert bool) (int64, error) {
	if len(filter) == 0 {
		return 0, fmt.Errorf("%s: %w", collection, domain.ErrEmptyFilter)
	}
	if len(update) == 0 {
		return 0, fmt.Errorf("%s: %w", collection, domain.ErrEmptyUpdate)
	}

	timestamp := dateutil.NowMillis()
	prepared := prepareUpdate(cloneUpdate(update), timestamp)
	if upsert {
		prepared = prepareUpsert(prepared, timestamp)
	}

	res, err := s.coll(collection).UpdateMany(ctx, filter, prepared, options.Update().SetUpsert(upsert))
	if err != nil {
		return 0, fmt.Errorf("%s: failed to update: %w", collection, domain.ErrWriteFailed)
	}
	return res.ModifiedCount, nil
}

// DeleteOne physically removes one document and returns it. Soft delete is
// a caller convention, not enforced here.
func (s *Store) DeleteOne(ctx context.Context, collection string, recordID string, filter ports.Document) (ports.Document, error) {
	resolved, err := resolveFilter(collection, recordID, filter)
	if err != nil {
		return nil, err
	}

	var model ports.Document
	err = s.coll(collection).FindOneAndDelete(ctx, resolved).Decode(&model)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s: failed to delete: %w", collection, domain.ErrWriteFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: delete one: %w", collection, err)
	}
	return model, nil
}

func (s *Store) DeleteMany(ctx context.Context, collection string, filter ports.Document) (int64, error) {
	if len(filter) == 0 {
		return 0, fmt.Errorf("%s: %w", collection, domain.ErrEmptyFilter)
	}
	res, err := s.coll(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: delete many: %w", collection, err)
	}
	return res.DeletedCount, nil
}

func (s *Store) Count(ctx context.Context, collection string, filter ports.Document) (int64, error) {
	n, err := s.coll(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", collection, err)
	}
	return n, nil
}

func (s *Store) Distinct(ctx context.Context, collection, field string) ([]interface{}, error) {
	values, err := s.coll(collection).Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: distinct %s: %w", collection, field, err)
	}
	return values, nil
}

// QueryRead runs an aggregation with plain skip/limit paging. No total
// count is computed; that is the cheap path.
func (s *Store) QueryRead(ctx context.Context, collection string, pipeline []ports.Document, page, pageSize int64) ([]ports.Document, error) {
	_, pageSize, skip := normalizePage(page, pageSize)

	stages := append(append([]ports.Document{}, pipeline...),
		ports.Document{"$skip": skip},
		ports.Document{"$limit": pageSize},
	)

	cursor, err := s.coll(collection).Aggregate(ctx, stages)
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", collection, err)
	}
	models := []ports.Document{}
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", collection, err)
	}
	return models, nil
}

// QueryReadPaged runs an aggregation wrapped with fan-out-and-count,
// returning one page plus its metadata in a single round trip.
func (s *Store) QueryReadPaged(ctx context.Context, collection string, pipeline []ports.Document, page, pageSize int64) (*ports.PagedResult, error) {
	page, pageSize, skip := normalizePage(page, pageSize)

	stages := append(append([]ports.Document{}, pipeline...), pagingStages(page, pageSize, skip)...)

	cursor, err := s.coll(collection).Aggregate(ctx, stages)
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", collection, err)
	}
	results := []ports.PagedResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", collection, err)
	}
	if len(results) == 0 {
		return &ports.PagedResult{
			Data:     []ports.Document{},
			Metadata: ports.PageMetadata{CurrentPage: page, PageSize: pageSize},
		}, nil
	}
	return &results[0], nil
}

// AggregatePipeline is QueryReadPaged for callers that always want paging
// metadata; kept distinct to mirror the two call sites' contracts.
func (s *Store) AggregatePipeline(ctx context.Context, collection string, pipeline []ports.Document, page, pageSize int64) (*ports.PagedResult, error) {
	return s.QueryReadPaged(ctx, collection, pipeline, page, pageSize)
}

// buildUpdateModel turns an UpdateOp into a driver write model with the
// same augmentation as UpdateOne.
func buildUpdateModel(collection string, op ports.UpdateOp) (mongo.WriteModel, error) {
	filter, err := resolveFilter(collection, op.RecordID, op.Filter)
	if err != nil {
		return nil, err
	}
	if len(op.Update) == 0 {
		return nil, fmt.Errorf("%s: %w", collection, domain.ErrEmptyUpdate)
	}

	timestamp := dateutil.NowMillis()
	update := prepareUpdate(cloneUpdate(op.Update), timestamp)
	if op.Upsert {
		update = prepareUpsert(update, timestamp)
	}

	return mongo.NewUpdateOneModel().
		SetFilter(filter).
		SetUpdate(update).
		SetUpsert(op.Upsert), nil
}

// BulkWrite executes a batch of update descriptors atomically per store
// semantics and returns modified+upserted counts combined.
func (s *Store) BulkWrite(ctx context.Context, collection string, ops []ports.UpdateOp) (int64, error) {
	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		model, err := buildUpdateModel(collection, op)
		if err != nil {
			return 0, err
		}
		models = append(models, model)
	}

	res, err := s.coll(collection).BulkWrite(ctx, models)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("%s: %w", collection, domain.ErrDuplicateKey)
		}
		return 0, fmt.Errorf("%s: bulk write: %w", collection, err)
	}
	return res.ModifiedCount + res.UpsertedCount, nil
}

// WithTransaction runs fn inside a mongo transaction. Store calls made
// with the callback's context join the transaction; either every write in
// fn persists or none does.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
