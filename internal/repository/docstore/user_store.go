package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ebd-admin/ebd-api/internal/models"
)

// UserStore persists accounts in usuarios and sessions in refresh_tokens.
type UserStore struct {
	users  *mongo.Collection
	tokens *mongo.Collection
}

// NewUserStore constructs the store.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{
		users:  db.Collection(UsersCollection),
		tokens: db.Collection(RefreshTokensCollection),
	}
}

func userFilter(filter models.UserFilter) bson.M {
	doc := bson.M{}
	if filter.Role != nil {
		doc["role"] = *filter.Role
	}
	if filter.Active != nil {
		doc["ativo"] = *filter.Active
	}
	if filter.Search != "" {
		doc["$or"] = bson.A{
			bson.M{"email": containsCI(filter.Search)},
			bson.M{"nome": containsCI(filter.Search)},
		}
	}
	return doc
}

// FindByEmail looks up a user by lower-cased email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindByID looks up a user by id.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateLastLogin records a successful login.
func (s *UserStore) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if _, err := s.users.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login": ts, "updated_at": ts}}); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdatePassword stores a new password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if _, err := s.users.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password_hash": passwordHash, "updated_at": updatedAt}}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// List returns users matching filter with the total count.
func (s *UserStore) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	query := userFilter(filter)
	cur, err := s.users.Find(ctx, query, pageOptions(filter.Page, filter.PageSize, "nome"))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	total, err := s.users.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, int(total), nil
}

// Create inserts a user.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(user.Email)
	if user.ClassIDs == nil {
		user.ClassIDs = pq.StringArray{}
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update rewrites profile, role and class permissions.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	if user.ClassIDs == nil {
		user.ClassIDs = pq.StringArray{}
	}
	update := bson.M{"$set": bson.M{
		"nome":              user.FullName,
		"role":              user.Role,
		"turmas_permitidas": []string(user.ClassIDs),
		"ativo":             user.Active,
		"updated_at":        user.UpdatedAt,
	}}
	if _, err := s.users.UpdateByID(ctx, user.ID, update); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete soft-deletes a user.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	if _, err := s.users.UpdateByID(ctx, id, bson.M{"$set": bson.M{"ativo": false, "updated_at": time.Now().UTC()}}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a session.
func (s *UserStore) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	if _, err := s.tokens.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken looks up a session by its token string.
func (s *UserStore) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := s.tokens.FindOne(ctx, bson.M{"token": token}).Decode(&rt); err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks one session revoked.
func (s *UserStore) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	if _, err := s.tokens.UpdateByID(ctx, id, bson.M{"$set": bson.M{"revoked": true, "revoked_at": revokedAt}}); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes every live session of a user.
func (s *UserStore) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"revoked": true, "revoked_at": time.Now().UTC()}}
	if _, err := s.tokens.UpdateMany(ctx, bson.M{"user_id": userID, "revoked": false}, update); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}
