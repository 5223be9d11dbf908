package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
	"trivia-quiz-service/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	Email        string    `bun:"email,pk"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

// IdentityGateway stores accounts in the users table with bcrypt hashes.
type IdentityGateway struct {
	db *bun.DB
}

func NewIdentityGateway(db *bun.DB) *IdentityGateway {
	return &IdentityGateway{db: db}
}

func (g *IdentityGateway) find(ctx context.Context, email string) (userRow, error) {
	var row userRow
	err := g.db.NewSelect().Model(&row).Where("email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return row, domain.ErrAuthNotFound
	}
	return row, err
}

func (g *IdentityGateway) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := g.find(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{Email: row.Email, CreatedAt: row.CreatedAt}, nil
}

func (g *IdentityGateway) CreateUser(ctx context.Context, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	row := userRow{Email: email, PasswordHash: string(hash), CreatedAt: time.Now().UTC()}
	res, err := g.db.NewInsert().Model(&row).On("CONFLICT (email) DO NOTHING").Exec(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.User{}, domain.ErrRegistrationConflict
	}
	return domain.User{Email: row.Email, CreatedAt: row.CreatedAt}, nil
}

func (g *IdentityGateway) VerifyPassword(ctx context.Context, email, password string) error {
	row, err := g.find(ctx, email)
	if err != nil {
		return err
	}
	return bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password))
}
