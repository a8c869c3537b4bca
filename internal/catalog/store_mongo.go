package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("products")}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.col.Database().Client().Ping(ctx, nil)
	})
}

// buildFilter translates the parsed query into a find document.
func buildFilter(q Query) bson.M {
	f := bson.M{}

	if q.Category != "" {
		f["category"] = q.Category
	}
	if q.Subcategory != "" {
		f["subcategory"] = q.Subcategory
	}
	if q.Brand != "" {
		f["brand"] = q.Brand
	}
	if q.Published != nil {
		f["published"] = *q.Published
	}
	if q.Featured != nil {
		f["featured"] = *q.Featured
	}
	if q.OnSale != nil {
		f["on_sale"] = *q.OnSale
	}
	if q.InStock != nil {
		if *q.InStock {
			f["stock"] = bson.M{"$gt": 0}
		} else {
			f["stock"] = bson.M{"$lte": 0}
		}
	}

	price := bson.M{}
	if q.MinPriceCents != nil {
		price["$gte"] = *q.MinPriceCents
	}
	if q.MaxPriceCents != nil {
		price["$lte"] = *q.MaxPriceCents
	}
	if len(price) > 0 {
		f["price_cents"] = price
	}

	return f
}

func (s *MongoStore) List(ctx context.Context, q Query) (Page, error) {
	var page Page

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		filter := buildFilter(q)

		total, err := s.col.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}

		dir := 1
		if q.SortDesc {
			dir = -1
		}
		opts := options.Find().
			SetSort(bson.D{{Key: sortFields[q.SortBy], Value: dir}, {Key: "_id", Value: 1}}).
			SetSkip(int64((q.Page - 1) * q.PageSize)).
			SetLimit(int64(q.PageSize))

		cur, err := s.col.Find(ctx, filter, opts)
		if err != nil {
			return fmt.Errorf("find products: %w", err)
		}
		defer cur.Close(ctx)

		products := make([]Product, 0, q.PageSize)
		if err := cur.All(ctx, &products); err != nil {
			return fmt.Errorf("decode products: %w", err)
		}

		page = Page{Products: products, Pagination: paginationFor(q, total)}
		return nil
	})

	if err != nil {
		return Page{}, err
	}
	return page, nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (Product, bool, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetBySlug(ctx context.Context, slug string) (Product, bool, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.col.FindOne(ctx, filter).Decode(&p)
	})

	if errors.Is(err, mongo.ErrNoDocuments) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *MongoStore) IncrementViews(ctx context.Context, id string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
		return err
	})
}

func (s *MongoStore) Create(ctx context.Context, p Product) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.col.InsertOne(ctx, p)
		return err
	})
}

func (s *MongoStore) Update(ctx context.Context, p Product) (bool, error) {
	var matched bool

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
		if err != nil {
			return err
		}
		matched = res.MatchedCount > 0
		return nil
	})

	return matched, err
}

func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount > 0
		return nil
	})

	return deleted, err
}

// EnsureIndexes creates the slug and listing indexes. Called once at boot.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "published", Value: 1}}},
	})
	return err
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
