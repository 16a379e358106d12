package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// scanUser は1行をmodel.Userに読み込む。google_idはNULL可。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var googleID sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&googleID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.GoogleID = googleID.String
	return user, nil
}

const userColumns = `id, email, name, password_hash, google_id, created_at, updated_at`

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByGoogleID はGoogleのsubクレームでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`,
		googleID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by google ID: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。
// 一意制約違反はラップして返し、呼び出し側がIsUniqueViolationで判定する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	// 空のGoogleIDはNULLとして格納する（部分一意インデックス対象外にする）
	var googleID sql.NullString
	if user.GoogleID != "" {
		googleID = sql.NullString{String: user.GoogleID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, google_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Name, user.PasswordHash,
		googleID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
