package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restopos/restopos/internal/domain"
)

type MongoRepository struct {
	carts *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{carts: db.Collection("carts")}
}

// cartDoc is the persisted shape; prices are stored as strings so decimal
// values round-trip exactly.
type cartDoc struct {
	SessionID string        `bson:"_id"`
	Lines     []cartLineDoc `bson:"lines"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

type cartLineDoc struct {
	LineID    string `bson:"line_id"`
	ProductID string `bson:"product_id"`
	Name      string `bson:"name"`
	UnitPrice string `bson:"unit_price"`
	Quantity  int    `bson:"quantity"`
}

func (r *MongoRepository) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var doc cartDoc
	err := r.carts.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return docToCart(&doc)
}

func (r *MongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	doc := cartToDoc(cart)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.carts.ReplaceOne(ctx, bson.M{"_id": cart.SessionID}, doc, opts); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}
	return nil
}

func (r *MongoRepository) DeleteCart(ctx context.Context, sessionID string) error {
	if _, err := r.carts.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func cartToDoc(cart *domain.Cart) *cartDoc {
	doc := &cartDoc{
		SessionID: cart.SessionID,
		Lines:     make([]cartLineDoc, 0, len(cart.Lines)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, l := range cart.Lines {
		doc.Lines = append(doc.Lines, cartLineDoc{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.String(),
			Quantity:  l.Quantity,
		})
	}
	return doc
}

func docToCart(doc *cartDoc) (*domain.Cart, error) {
	cart := &domain.Cart{
		SessionID: doc.SessionID,
		Lines:     make([]domain.CartLine, 0, len(doc.Lines)),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, l := range doc.Lines {
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse unit price %q: %w", l.UnitPrice, err)
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: price,
			Quantity:  l.Quantity,
		})
	}
	return cart, nil
}
