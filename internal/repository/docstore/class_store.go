package docstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ebd-admin/ebd-api/internal/models"
)

// ClassStore persists classes in the turmas collection.
type ClassStore struct {
	col *mongo.Collection
}

// NewClassStore constructs the store.
func NewClassStore(db *mongo.Database) *ClassStore {
	return &ClassStore{col: db.Collection(ClassesCollection)}
}

func classFilter(filter models.ClassFilter) bson.M {
	doc := bson.M{}
	if filter.Active != nil {
		doc["ativa"] = *filter.Active
	}
	if filter.Search != "" {
		doc["nome"] = containsCI(filter.Search)
	}
	return doc
}

// List returns classes matching filter with the total count.
func (s *ClassStore) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	query := classFilter(filter)
	cur, err := s.col.Find(ctx, query, pageOptions(filter.Page, filter.PageSize, "nome"))
	if err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}
	var classes []models.Class
	if err := cur.All(ctx, &classes); err != nil {
		return nil, 0, fmt.Errorf("decode classes: %w", err)
	}
	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, int(total), nil
}

// FindActive returns every active class ordered by name.
func (s *ClassStore) FindActive(ctx context.Context) ([]models.Class, error) {
	cur, err := s.col.Find(ctx, bson.M{"ativa": true}, options.Find().SetSort(bson.D{{Key: "nome", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find active classes: %w", err)
	}
	var classes []models.Class
	if err := cur.All(ctx, &classes); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	return classes, nil
}

// FindByID returns sql.ErrNoRows when the class does not exist.
func (s *ClassStore) FindByID(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&class); err != nil {
		return nil, notFound(err)
	}
	return &class, nil
}

// ExistsByName compares names case-insensitively, skipping excludeID.
func (s *ClassStore) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := bson.M{"nome": bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"}}
	if excludeID != "" {
		query["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := s.col.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check class name: %w", err)
	}
	return count > 0, nil
}

// Create inserts a class.
func (s *ClassStore) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now
	if _, err := s.col.InsertOne(ctx, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields.
func (s *ClassStore) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"nome":       class.Name,
		"descricao":  class.Description,
		"ativa":      class.Active,
		"updated_at": class.UpdatedAt,
	}}
	if _, err := s.col.UpdateByID(ctx, class.ID, update); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a class.
func (s *ClassStore) Deactivate(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"ativa": false, "updated_at": time.Now().UTC()}}
	if _, err := s.col.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("deactivate class: %w", err)
	}
	return nil
}
