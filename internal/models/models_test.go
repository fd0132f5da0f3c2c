package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceStatusValid(t *testing.T) {
	for _, s := range []AttendanceStatus{AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusVisitor, AttendanceStatusPostRollCall} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, AttendanceStatus("PRESENTE").Valid())
	assert.False(t, AttendanceStatus("").Valid())
}

func TestCanAccessClass(t *testing.T) {
	assert.True(t, CanAccessClass(RoleAdmin, []string{"a"}, "b"))
	assert.True(t, CanAccessClass(RoleTeacher, nil, "b"))
	assert.True(t, CanAccessClass(RoleTeacher, []string{"a", "b"}, "b"))
	assert.False(t, CanAccessClass(RoleModerator, []string{"a"}, "b"))

	var claims *JWTClaims
	assert.False(t, claims.CanAccessClass("a"))
	claims = &JWTClaims{Role: RoleTeacher, Classes: []string{"a"}}
	assert.True(t, claims.CanAccessClass("a"))
	assert.False(t, claims.CanAccessClass("z"))
}

func TestPermittedClasses(t *testing.T) {
	var none *JWTClaims
	assert.Nil(t, none.PermittedClasses())
	assert.Nil(t, (&JWTClaims{Role: RoleAdmin, Classes: []string{"a"}}).PermittedClasses())
	assert.Nil(t, (&JWTClaims{Role: RoleTeacher}).PermittedClasses())
	assert.Equal(t, []string{"a"}, (&JWTClaims{Role: RoleModerator, Classes: []string{"a"}}).PermittedClasses())
}
