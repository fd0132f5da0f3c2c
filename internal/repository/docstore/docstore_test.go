package docstore

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ebd-admin/ebd-api/internal/models"
)

func TestNotFoundMapsNoDocuments(t *testing.T) {
	assert.ErrorIs(t, notFound(mongo.ErrNoDocuments), sql.ErrNoRows)
	other := errors.New("timeout")
	assert.Equal(t, other, notFound(other))
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(3, 500, "nome")
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 40, *opts.Skip)
	assert.EqualValues(t, 20, *opts.Limit)
	assert.Equal(t, bson.D{{Key: "nome", Value: 1}}, opts.Sort)
}

func TestClassFilter(t *testing.T) {
	active := false
	doc := classFilter(models.ClassFilter{Active: &active, Search: "jov.ens"})
	assert.Equal(t, false, doc["ativa"])
	assert.Equal(t, bson.M{"$regex": `jov\.ens`, "$options": "i"}, doc["nome"])
}

func TestStudentFilterSearchesNameAndContact(t *testing.T) {
	doc := studentFilter(models.StudentFilter{ClassID: "turma-1", Search: "ana"})
	assert.Equal(t, "turma-1", doc["turma_id"])
	assert.Len(t, doc["$or"], 2)
	assert.NotContains(t, doc, "ativo")
}

func TestStudentFilterClassSet(t *testing.T) {
	doc := studentFilter(models.StudentFilter{ClassIDs: []string{"turma-1", "turma-3"}})
	assert.Equal(t, bson.M{"$in": []string{"turma-1", "turma-3"}}, doc["turma_id"])

	doc = studentFilter(models.StudentFilter{ClassID: "turma-1", ClassIDs: []string{"turma-3"}})
	assert.Equal(t, "turma-1", doc["turma_id"])
}

func TestUserFilterRole(t *testing.T) {
	role := models.RoleTeacher
	doc := userFilter(models.UserFilter{Role: &role})
	assert.Equal(t, models.RoleTeacher, doc["role"])
}

func TestReplacementDocsStampClassAndDate(t *testing.T) {
	now := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{StudentID: "s1", ClassID: "stale", Status: models.AttendanceStatusPresent},
		{StudentID: "s2", Status: models.AttendanceStatusVisitor},
	}
	docs := replacementDocs("turma-1", "2024-03-03", records, now)
	require.Len(t, docs, 2)
	for i, doc := range docs {
		rec := doc.(models.AttendanceRecord)
		assert.Equal(t, "turma-1", rec.ClassID)
		assert.Equal(t, "2024-03-03", rec.Date)
		assert.Equal(t, now, rec.CreatedAt)
		assert.Equal(t, records[i].ID, rec.ID)
		assert.NotEmpty(t, rec.ID)
	}
	assert.Empty(t, replacementDocs("turma-1", "2024-03-03", nil, now))
}
