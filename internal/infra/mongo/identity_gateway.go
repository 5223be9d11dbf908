package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"
	"trivia-quiz-service/internal/domain"
)

type userDocument struct {
	Email        string    `bson:"_id"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// IdentityGateway keeps accounts in the users collection, keyed by email.
type IdentityGateway struct {
	collection *mongo.Collection
}

func NewIdentityGateway(db *mongo.Database) *IdentityGateway {
	return &IdentityGateway{collection: db.Collection("users")}
}

func (g *IdentityGateway) find(ctx context.Context, email string) (userDocument, error) {
	var doc userDocument
	err := g.collection.FindOne(ctx, bson.M{"_id": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, domain.ErrAuthNotFound
	}
	return doc, err
}

func (g *IdentityGateway) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	doc, err := g.find(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Email: doc.Email, CreatedAt: doc.CreatedAt}, nil
}

func (g *IdentityGateway) CreateUser(ctx context.Context, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	doc := userDocument{Email: email, PasswordHash: string(hash), CreatedAt: time.Now().UTC()}
	if _, err := g.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrRegistrationConflict
		}
		return domain.User{}, err
	}
	return domain.User{Email: doc.Email, CreatedAt: doc.CreatedAt}, nil
}

func (g *IdentityGateway) VerifyPassword(ctx context.Context, email, password string) error {
	doc, err := g.find(ctx, email)
	if err != nil {
		return err
	}
	return bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password))
}
