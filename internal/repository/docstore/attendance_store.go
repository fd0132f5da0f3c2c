package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ebd-admin/ebd-api/internal/models"
)

// AttendanceStore persists roll-call records in the presencas collection.
type AttendanceStore struct {
	col *mongo.Collection
}

// NewAttendanceStore constructs the store.
func NewAttendanceStore(db *mongo.Database) *AttendanceStore {
	return &AttendanceStore{col: db.Collection(AttendanceCollection)}
}

func dayFilter(classID, date string) bson.M {
	return bson.M{"turma_id": classID, "data": date}
}

// ListByClassAndDate returns every record for the class on date.
func (s *AttendanceStore) ListByClassAndDate(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	cur, err := s.col.Find(ctx, dayFilter(classID, date), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	records := []models.AttendanceRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}
	return records, nil
}

// FindByID returns sql.ErrNoRows when the record does not exist.
func (s *AttendanceStore) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		return nil, notFound(err)
	}
	return &record, nil
}

// ExistsForStudent reports whether the student already has a record on date.
func (s *AttendanceStore) ExistsForStudent(ctx context.Context, studentID, date string) (bool, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{"aluno_id": studentID, "data": date}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check attendance duplicate: %w", err)
	}
	return count > 0, nil
}

// Create inserts one record.
func (s *AttendanceStore) Create(ctx context.Context, record *models.AttendanceRecord) error {
	stamp(record, time.Now().UTC())
	if _, err := s.col.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update rewrites status and tallies.
func (s *AttendanceStore) Update(ctx context.Context, record *models.AttendanceRecord) error {
	record.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":             record.Status,
		"oferta":             record.Offering,
		"biblias_entregues":  record.Bibles,
		"revistas_entregues": record.Guides,
		"updated_at":         record.UpdatedAt,
	}}
	if _, err := s.col.UpdateByID(ctx, record.ID, update); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Delete removes one record.
func (s *AttendanceStore) Delete(ctx context.Context, id string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}

// ReplaceDay deletes the (classID, date) set and inserts records. The two
// steps are not atomic: a failed insert leaves the day empty.
func (s *AttendanceStore) ReplaceDay(ctx context.Context, classID, date string, records []models.AttendanceRecord) error {
	if _, err := s.col.DeleteMany(ctx, dayFilter(classID, date)); err != nil {
		return fmt.Errorf("delete attendance day: %w", err)
	}
	docs := replacementDocs(classID, date, records, time.Now().UTC())
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert attendance day: %w", err)
	}
	return nil
}

func replacementDocs(classID, date string, records []models.AttendanceRecord, now time.Time) []interface{} {
	docs := make([]interface{}, 0, len(records))
	for i := range records {
		records[i].ClassID = classID
		records[i].Date = date
		stamp(&records[i], now)
		docs = append(docs, records[i])
	}
	return docs
}

func stamp(record *models.AttendanceRecord, now time.Time) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
}
