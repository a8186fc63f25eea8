package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/codewithdevelpors/hackorbit/internal/common"
	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const (
	collectionName = "files"

	fieldFileName     = "fileName"
	fieldType         = "type"
	fieldCategory     = "category"
	fieldRating       = "rating"
	fieldRatingsCount = "ratingsCount"
)

type catalogRepository struct {
	cl  *mongo.Client
	col *mongo.Collection
	log *slog.Logger
}

func NewCatalogRepository(cl *mongo.Client, dbName string, log *slog.Logger) *catalogRepository {
	return &catalogRepository{
		cl:  cl,
		col: cl.Database(dbName).Collection(collectionName),
		log: log.With(slog.String("item", "CatalogRepository")),
	}
}

// Ping probes the store. Used by the health endpoint; a failure here means
// degraded mode, not a dead process.
func (r *catalogRepository) Ping(ctx context.Context) error {
	if err := r.cl.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %s", common.ErrStoreUnavailableError, err)
	}

	return nil
}

func (r *catalogRepository) FindPage(ctx context.Context, page, pageSize int) ([]*entity.File, error) {
	skip := int64((page - 1) * pageSize)
	opts := options.Find().SetSkip(skip).SetLimit(int64(pageSize))

	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot find page %d: %w", page, storeErr(err))
	}
	defer cur.Close(ctx)

	files := make([]*entity.File, 0, pageSize)
	if err := cur.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("cannot decode page %d: %w", page, storeErr(err))
	}

	return files, nil
}

func (r *catalogRepository) FindByID(ctx context.Context, id string) (*entity.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrFileNotFoundError
	}

	var file entity.File
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&file); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrFileNotFoundError
		}

		return nil, fmt.Errorf("cannot find file %s: %w", id, storeErr(err))
	}

	return &file, nil
}

func (r *catalogRepository) FindByFilter(ctx context.Context, category, fileType, query string) ([]*entity.File, error) {
	filter := buildSearchFilter(category, fileType, query)

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cannot search files: %w", storeErr(err))
	}
	defer cur.Close(ctx)

	var files []*entity.File
	if err := cur.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("cannot decode search results: %w", storeErr(err))
	}

	return files, nil
}

// UpdateRating folds one vote into the running mean in a single atomic
// pipeline update. Both expressions read the pre-update document, so
// concurrent raters never observe or produce a stale average.
func (r *catalogRepository) UpdateRating(ctx context.Context, id string, rating int) (*entity.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrFileNotFoundError
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var file entity.File
	err = r.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, buildRatingUpdate(rating), opts).Decode(&file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrFileNotFoundError
		}

		return nil, fmt.Errorf("cannot update rating for file %s: %w", id, storeErr(err))
	}

	return &file, nil
}

// Insert writes pre-validated records unordered, so one bad document does
// not abort the batch.
func (r *catalogRepository) Insert(ctx context.Context, files []*entity.File) (int, error) {
	if len(files) < 1 {
		return 0, nil
	}

	docs := make([]any, 0, len(files))
	for _, file := range files {
		docs = append(docs, file)
	}

	res, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) && res != nil {
			r.log.Error("Partial insert", slog.Int("inserted", len(res.InsertedIDs)), slog.Int("failed", len(bwe.WriteErrors)))

			return len(res.InsertedIDs), nil
		}

		return 0, fmt.Errorf("cannot insert files: %w", storeErr(err))
	}

	return len(res.InsertedIDs), nil
}

// Upsert replaces records matched by fileName and inserts the rest.
// fileName is treated as a unique key here only, there is no index
// enforcing it.
func (r *catalogRepository) Upsert(ctx context.Context, files []*entity.File) (int, int, error) {
	if len(files) < 1 {
		return 0, 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(files))
	for _, file := range files {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: fieldFileName, Value: file.FileName}}).
			SetReplacement(file).
			SetUpsert(true))
	}

	res, err := r.col.BulkWrite(ctx, models)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot upsert files: %w", storeErr(err))
	}

	return int(res.UpsertedCount), int(res.ModifiedCount), nil
}

// buildSearchFilter AND's the exact-match fields and, when a text query is
// present, requires a case-insensitive substring match on at least one of
// fileName, type or category.
func buildSearchFilter(category, fileType, query string) bson.D {
	filter := bson.D{}

	if category != "" {
		filter = append(filter, bson.E{Key: fieldCategory, Value: category})
	}
	if fileType != "" {
		filter = append(filter, bson.E{Key: fieldType, Value: fileType})
	}

	if query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: fieldFileName, Value: re}},
			bson.D{{Key: fieldType, Value: re}},
			bson.D{{Key: fieldCategory, Value: re}},
		}})
	}

	return filter
}

// buildRatingUpdate produces the aggregation-pipeline update
//
//	ratingsCount' = ratingsCount + 1
//	rating'       = (rating*ratingsCount + v) / (ratingsCount + 1)
//
// With ratingsCount=0 the first vote yields rating'=v exactly.
func buildRatingUpdate(rating int) mongo.Pipeline {
	newCount := bson.D{{Key: "$add", Value: bson.A{"$" + fieldRatingsCount, 1}}}
	folded := bson.D{{Key: "$add", Value: bson.A{
		bson.D{{Key: "$multiply", Value: bson.A{"$" + fieldRating, "$" + fieldRatingsCount}}},
		rating,
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: fieldRating, Value: bson.D{{Key: "$divide", Value: bson.A{folded, newCount}}}},
			{Key: fieldRatingsCount, Value: newCount},
		}}},
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %s", common.ErrStoreUnavailableError, err)
}
