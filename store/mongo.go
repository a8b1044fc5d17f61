package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pdrpinto/navmesh2d/navdata"
)

const (
	mongoDatabase   = "navmesh2d"
	mongoCollection = "asset"
)

// AssetMongo is one stored asset document.
type AssetMongo struct {
	Name      string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per asset, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(ctx context.Context, url string) (*MongoStore, error) {
	clientOptions := options.Client().ApplyURI(url)
	clientOptions = clientOptions.SetMinPoolSize(1)
	clientOptions = clientOptions.SetMaxPoolSize(100)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{client: client, coll: client.Database(mongoDatabase).Collection(mongoCollection)}, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, data *navdata.NavMeshData) error {
	raw, err := navdata.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		AssetMongo{Name: name, Data: raw, UpdatedAt: time.Now()},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Load(ctx context.Context, name string) (*navdata.NavMeshData, error) {
	doc := new(AssetMongo)
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(name)
		}
		return nil, err
	}
	return navdata.Unmarshal(doc.Data)
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.TODO())
}
