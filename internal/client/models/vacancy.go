package models

import (
	"fmt"
	"time"
)

type JobType string

const (
	JobTypeFullTime JobType = "full_time"
	JobTypePartTime JobType = "part_time"
	JobTypeRemote   JobType = "remote"
	JobTypeHybrid   JobType = "hybrid"
)

// Valid reports whether t is one of the known job types.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeRemote, JobTypeHybrid:
		return true
	}
	return false
}

type VacancyStatus string

const (
	VacancyStatusActive   VacancyStatus = "active"
	VacancyStatusArchived VacancyStatus = "archived"
)

func (s VacancyStatus) Valid() bool {
	return s == VacancyStatusActive || s == VacancyStatusArchived
}

// Vacancy is a job posting as returned by /vacancies.
type Vacancy struct {
	ID          string        `json:"id"`
	CompanyID   string        `json:"companyId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	SalaryFrom  *int64        `json:"salaryFrom,omitempty"`
	SalaryTo    *int64        `json:"salaryTo,omitempty"`
	JobType     JobType       `json:"jobType"`
	Location    *string       `json:"location,omitempty"`
	Status      VacancyStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// SalaryRange formats the optional salary bounds, "" when neither is set.
func (v *Vacancy) SalaryRange() string {
	switch {
	case v.SalaryFrom != nil && v.SalaryTo != nil:
		return fmt.Sprintf("%d–%d", *v.SalaryFrom, *v.SalaryTo)
	case v.SalaryFrom != nil:
		return fmt.Sprintf("from %d", *v.SalaryFrom)
	case v.SalaryTo != nil:
		return fmt.Sprintf("up to %d", *v.SalaryTo)
	default:
		return ""
	}
}

// PublicVacancy is an entry of the unauthenticated catalogue
// (/public/vacancies). Detail-only fields are empty in list responses.
type PublicVacancy struct {
	ID             string `json:"id"`
	Slug           string `json:"slug,omitempty"`
	Title          string `json:"title"`
	Location       string `json:"location,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
	PublishedAt    string `json:"publishedAt,omitempty"`
	Description    string `json:"description,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	Salary         string `json:"salary,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}
