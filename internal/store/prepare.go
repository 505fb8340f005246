package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wowlabz/accounts-api/internal/core/ports"
)

const (
	defaultPageSize int64 = 10
	maxPageSize     int64 = 100
)

// newRecordID generates the string form of a fresh 24-hex ObjectId.
func newRecordID() string {
	return primitive.NewObjectID().Hex()
}

// cloneUpdate copies an update document one level deep, including the $set
// and $setOnInsert sub-documents, so augmentation never mutates the
// caller's map.
func cloneUpdate(update ports.Document) ports.Document {
	out := make(ports.Document, len(update))
	for k, v := range update {
		if sub, ok := v.(bson.M); ok && (k == "$set" || k == "$setOnInsert") {
			subCopy := make(bson.M, len(sub))
			for sk, sv := range sub {
				subCopy[sk] = sv
			}
			out[k] = subCopy
			continue
		}
		out[k] = v
	}
	return out
}

// prepareUpdate stamps updated_at into the $set clause, creating the
// clause when absent. Every write path funnels through here; that is the
// load-bearing invariant of the layer.
func prepareUpdate(update ports.Document, timestamp int64) ports.Document {
	set, ok := update["$set"].(bson.M)
	if !ok {
		set = bson.M{}
		update["$set"] = set
	}
	set["updated_at"] = timestamp
	return update
}

// prepareUpsert augments $setOnInsert with a fresh _id and created_at, and
// defaults is_deleted=false unless the caller's $set already decides it.
func prepareUpsert(update ports.Document, timestamp int64) ports.Document {
	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok {
		onInsert = bson.M{}
		update["$setOnInsert"] = onInsert
	}
	onInsert["_id"] = newRecordID()
	onInsert["created_at"] = timestamp

	set, _ := update["$set"].(bson.M)
	if _, decided := set["is_deleted"]; !decided {
		onInsert["is_deleted"] = false
	}
	return update
}

// normalizeCreate fills in the creation-time defaults on a copy of doc:
// _id, created_at, updated_at and is_deleted, each only when absent.
func normalizeCreate(doc ports.Document, timestamp int64) ports.Document {
	out := make(ports.Document, len(doc)+4)
	for k, v := range doc {
		out[k] = v
	}
	if _, ok := out["_id"]; !ok {
		out["_id"] = newRecordID()
	}
	if _, ok := out["created_at"]; !ok {
		out["created_at"] = timestamp
	}
	if _, ok := out["updated_at"]; !ok {
		out["updated_at"] = timestamp
	}
	if _, ok := out["is_deleted"]; !ok {
		out["is_deleted"] = false
	}
	return out
}

// normalizePage applies the paging defaults and cap: pageSize defaults to
// 10 and is clamped to 100, page defaults to 1.
func normalizePage(page, pageSize int64) (int64, int64, int64) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	} else if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize, (page - 1) * pageSize
}

// pagingStages builds the fan-out-and-count wrap: one $facet computing a
// page of pageSize+1 documents (the extra one only detects a next page)
// alongside a total count, then metadata assembly, then a $project slicing
// the page back down to pageSize.
func pagingStages(page, pageSize, skip int64) []ports.Document {
	return []ports.Document{
		{"$facet": bson.M{
			"data":        []bson.M{{"$skip": skip}, {"$limit": pageSize + 1}},
			"total_count": []bson.M{{"$count": "total"}},
		}},
		{"$addFields": bson.M{
			"metadata": bson.M{
				"current_page":  page,
				"page_size":     pageSize,
				"total_records": bson.M{"$ifNull": []interface{}{bson.M{"$arrayElemAt": []interface{}{"$total_count.total", 0}}, 0}},
				"has_next_page": bson.M{"$gt": []interface{}{bson.M{"$size": "$data"}, pageSize}},
			},
		}},
		{"$project": bson.M{
			"data":     bson.M{"$slice": []interface{}{"$data", pageSize}},
			"metadata": 1,
		}},
	}
}
