package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Renanlucass/loja-virtual/internal/domain"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return mongoRepository{collection: db.Collection("carts")}
}

// cartDocument is the stored shape. Prices are kept as decimal strings so
// currency never round-trips through float64.
type cartDocument struct {
	SessionID string         `bson:"session_id"`
	Lines     []lineDocument `bson:"lines"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

type lineDocument struct {
	ProductID  int64     `bson:"product_id"`
	Name       string    `bson:"name"`
	ImageURL   string    `bson:"image_url,omitempty"`
	UnitPrice  string    `bson:"unit_price"`
	Quantity   int       `bson:"quantity"`
	StockLimit int       `bson:"stock_limit,omitempty"`
	AddedAt    time.Time `bson:"added_at"`
}

// EnsureIndexes creates the unique session index. Idempotent.
func (m mongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (m mongoRepository) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var doc cartDocument

	filter := bson.M{"session_id": sessionID}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart, err := doc.toDomain()
	if err != nil {
		// A document we cannot decode counts as no cart at all; the
		// session starts over with an empty one.
		return nil, ErrCartNotFound
	}
	return cart, nil
}

func (m mongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	doc := fromDomain(cart)

	filter := bson.M{"session_id": cart.SessionID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m mongoRepository) DeleteCart(ctx context.Context, sessionID string) error {
	filter := bson.M{"session_id": sessionID}
	if _, err := m.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func fromDomain(cart *domain.Cart) cartDocument {
	doc := cartDocument{
		SessionID: cart.SessionID,
		Lines:     make([]lineDocument, len(cart.Lines)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for i, line := range cart.Lines {
		doc.Lines[i] = lineDocument{
			ProductID:  line.ProductID,
			Name:       line.Name,
			ImageURL:   line.ImageURL,
			UnitPrice:  line.UnitPrice.String(),
			Quantity:   line.Quantity,
			StockLimit: line.StockLimit,
			AddedAt:    line.AddedAt,
		}
	}
	return doc
}

func (d cartDocument) toDomain() (*domain.Cart, error) {
	cart := &domain.Cart{
		SessionID: d.SessionID,
		Lines:     make([]domain.CartLine, len(d.Lines)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for i, line := range d.Lines {
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("bad unit price %q: %w", line.UnitPrice, err)
		}
		cart.Lines[i] = domain.CartLine{
			ProductID:  line.ProductID,
			Name:       line.Name,
			ImageURL:   line.ImageURL,
			UnitPrice:  price,
			Quantity:   line.Quantity,
			StockLimit: line.StockLimit,
			AddedAt:    line.AddedAt,
		}
	}
	return cart, nil
}
