package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ebd-admin/ebd-api/internal/models"
)

// StudentStore persists students in the alunos collection.
type StudentStore struct {
	col *mongo.Collection
}

// NewStudentStore constructs the store.
func NewStudentStore(db *mongo.Database) *StudentStore {
	return &StudentStore{col: db.Collection(StudentsCollection)}
}

func studentFilter(filter models.StudentFilter) bson.M {
	doc := bson.M{}
	if filter.ClassID != "" {
		doc["turma_id"] = filter.ClassID
	} else if len(filter.ClassIDs) > 0 {
		doc["turma_id"] = bson.M{"$in": filter.ClassIDs}
	}
	if filter.Active != nil {
		doc["ativo"] = *filter.Active
	}
	if filter.Search != "" {
		doc["$or"] = bson.A{
			bson.M{"nome": containsCI(filter.Search)},
			bson.M{"contato": containsCI(filter.Search)},
		}
	}
	return doc
}

// List returns students matching filter with the total count.
func (s *StudentStore) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	query := studentFilter(filter)
	cur, err := s.col.Find(ctx, query, pageOptions(filter.Page, filter.PageSize, "nome"))
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	var students []models.Student
	if err := cur.All(ctx, &students); err != nil {
		return nil, 0, fmt.Errorf("decode students: %w", err)
	}
	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, int(total), nil
}

// FindByID returns sql.ErrNoRows when the student does not exist.
func (s *StudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&student); err != nil {
		return nil, notFound(err)
	}
	return &student, nil
}

// ExistingIDs returns the subset of ids that belong to a stored student.
func (s *StudentStore) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw, err := s.col.Distinct(ctx, "_id", bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find existing students: %w", err)
	}
	found := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			found = append(found, id)
		}
	}
	return found, nil
}

// CountActiveByClass counts active students whose owning class is classID.
func (s *StudentStore) CountActiveByClass(ctx context.Context, classID string) (int, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{"turma_id": classID, "ativo": true})
	if err != nil {
		return 0, fmt.Errorf("count active students: %w", err)
	}
	return int(count), nil
}

// Create inserts a student.
func (s *StudentStore) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	if _, err := s.col.InsertOne(ctx, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields.
func (s *StudentStore) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"nome":            student.FullName,
		"data_nascimento": student.BirthDate,
		"contato":         student.Contact,
		"turma_id":        student.ClassID,
		"ativo":           student.Active,
		"updated_at":      student.UpdatedAt,
	}}
	if _, err := s.col.UpdateByID(ctx, student.ID, update); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Transfer moves a student to classID. Attendance documents keep their turma_id.
func (s *StudentStore) Transfer(ctx context.Context, id, classID string) error {
	update := bson.M{"$set": bson.M{"turma_id": classID, "updated_at": time.Now().UTC()}}
	if _, err := s.col.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("transfer student: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a student.
func (s *StudentStore) Deactivate(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"ativo": false, "updated_at": time.Now().UTC()}}
	if _, err := s.col.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}
