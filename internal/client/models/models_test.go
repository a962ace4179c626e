package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{"nil", nil, ""},
		{"full", &User{FirstName: "Ann", LastName: "Lee", Email: "a@b.com"}, "Ann Lee"},
		{"first only", &User{FirstName: "Ann", Email: "a@b.com"}, "Ann"},
		{"last only", &User{LastName: "Lee", Email: "a@b.com"}, "Lee"},
		{"email fallback", &User{Email: "a@b.com"}, "a@b.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestVacancy_DecodeOptionalFields(t *testing.T) {
	raw := `{
		"id": "v1", "companyId": "c1", "title": "Go developer", "description": "d",
		"salaryFrom": 1000, "jobType": "remote", "status": "active",
		"createdAt": "2026-01-02T03:04:05Z", "updatedAt": "2026-01-03T03:04:05Z"
	}`

	var v Vacancy
	require.NoError(t, json.Unmarshal([]byte(raw), &v))

	require.NotNil(t, v.SalaryFrom)
	assert.Equal(t, int64(1000), *v.SalaryFrom)
	assert.Nil(t, v.SalaryTo)
	assert.Nil(t, v.Location)
	assert.True(t, v.JobType.Valid())
	assert.True(t, v.Status.Valid())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), v.CreatedAt)
}

func TestVacancy_SalaryRange(t *testing.T) {
	from, to := int64(100), int64(200)

	assert.Equal(t, "100–200", (&Vacancy{SalaryFrom: &from, SalaryTo: &to}).SalaryRange())
	assert.Equal(t, "from 100", (&Vacancy{SalaryFrom: &from}).SalaryRange())
	assert.Equal(t, "up to 200", (&Vacancy{SalaryTo: &to}).SalaryRange())
	assert.Equal(t, "", (&Vacancy{}).SalaryRange())
}

func TestEnums_Valid(t *testing.T) {
	assert.False(t, JobType("contract").Valid())
	assert.False(t, VacancyStatus("draft").Valid())
	assert.True(t, VacancyStatusArchived.Valid())
	assert.True(t, JobTypeFullTime.Valid())
}

func TestDocumentContentType(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"cv.pdf", "application/pdf", true},
		{"CV.PDF", "application/pdf", true},
		{"cv.doc", "application/msword", true},
		{"cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"cv.txt", "", false},
		{"cv", "", false},
	}
	for _, tt := range tests {
		got, ok := DocumentContentType(tt.name)
		assert.Equal(t, tt.want, got, tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
	}
}
