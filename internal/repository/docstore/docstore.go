// Package docstore implements the record store on MongoDB. Method sets mirror
// the SQL repositories so services accept either driver.
package docstore

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	ClassesCollection       = "turmas"
	StudentsCollection      = "alunos"
	AttendanceCollection    = "presencas"
	UsersCollection         = "usuarios"
	RefreshTokensCollection = "refresh_tokens"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// notFound converts the driver's sentinel into sql.ErrNoRows, which services
// already treat as "missing".
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sql.ErrNoRows
	}
	return err
}

func pageOptions(page, size int, sortField string) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: 1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
}

// containsCI builds a case-insensitive substring match on field.
func containsCI(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(search)), "$options": "i"}
}
