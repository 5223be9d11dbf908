package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"trivia-quiz-service/internal/domain"
)

type scoreDocument struct {
	Email string `bson:"_id"`
	Score int    `bson:"score"`
}

// ScoreStore keeps one document per user in the leaderboard collection: {_id: email, score}.
type ScoreStore struct {
	collection *mongo.Collection
}

func NewScoreStore(db *mongo.Database) *ScoreStore {
	return &ScoreStore{collection: db.Collection("leaderboard")}
}

// EnsureIndexes creates the index backing TopScores.
func (s *ScoreStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: 1}},
	})
	return err
}

func (s *ScoreStore) GetScore(ctx context.Context, email string) (int, bool, error) {
	var doc scoreDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return doc.Score, true, nil
}

func (s *ScoreStore) SetScore(ctx context.Context, email string, score int) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": email},
		scoreDocument{Email: email, Score: score},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *ScoreStore) TopScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []scoreDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, domain.LeaderboardEntry{UserEmail: doc.Email, HighScore: doc.Score})
	}
	return entries, nil
}
