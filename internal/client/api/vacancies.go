package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/transport"
	"github.com/dmitrijs2005/jobportal/internal/common"
)

// ListParams filters GET /vacancies. Zero values are not sent.
type ListParams struct {
	CompanyID string
	Status    models.VacancyStatus
	JobType   models.JobType
	Query     string
	Cursor    string
	Limit     int
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("companyId", p.CompanyID)
	set("status", string(p.Status))
	set("jobType", string(p.JobType))
	set("q", p.Query)
	set("cursor", p.Cursor)
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

// VacancyPage is one page of GET /vacancies. An empty NextCursor means there
// are no more pages.
type VacancyPage struct {
	Vacancies  []models.Vacancy `json:"vacancies"`
	NextCursor string           `json:"nextCursor"`
}

type vacancyResponse struct {
	Vacancy *models.Vacancy `json:"vacancy"`
}

// ApplyRequest submits a document, and optionally a cover letter, to a
// vacancy.
type ApplyRequest struct {
	VacancyID   string
	Document    models.Document
	CoverLetter string
}

// Validate checks what the client can check before uploading.
func (r ApplyRequest) Validate() error {
	if strings.TrimSpace(r.VacancyID) == "" {
		return fmt.Errorf("%w: vacancy id is required", common.ErrorValidation)
	}
	if len(r.Document.Data) == 0 {
		return fmt.Errorf("%w: document is empty", common.ErrorValidation)
	}
	if _, ok := models.DocumentContentType(r.Document.Name); !ok {
		return fmt.Errorf("%w: %q must be a .pdf, .doc or .docx file", common.ErrorValidation, r.Document.Name)
	}
	return nil
}

func (r ApplyRequest) form() *transport.Form {
	ct := r.Document.ContentType
	if ct == "" {
		ct, _ = models.DocumentContentType(r.Document.Name)
	}

	f := &transport.Form{
		Fields: map[string]string{},
		Files: []transport.File{{
			Field:       "file",
			Name:        r.Document.Name,
			ContentType: ct,
			Data:        r.Document.Data,
		}},
	}
	if letter := strings.TrimSpace(r.CoverLetter); letter != "" {
		f.Fields["coverLetter"] = letter
	}
	return f
}

var errMissingVacancy = errors.New("response without vacancy")

type VacanciesAPI struct {
	doer transport.Doer

	list  Endpoint[ListParams, VacancyPage]
	get   Endpoint[string, vacancyResponse]
	apply Endpoint[ApplyRequest, struct{}]

	listPublic Endpoint[PublicListParams, []models.PublicVacancy]
	getPublic  Endpoint[string, *models.PublicVacancy]
}

func NewVacanciesAPI(doer transport.Doer) *VacanciesAPI {
	return &VacanciesAPI{
		doer: doer,
		list: Endpoint[ListParams, VacancyPage]{
			Build: func(p ListParams) *transport.Request {
				return &transport.Request{Method: http.MethodGet, Path: "/vacancies", Query: p.values()}
			},
		},
		get: Endpoint[string, vacancyResponse]{
			Build: func(id string) *transport.Request {
				return &transport.Request{Method: http.MethodGet, Path: "/vacancies/" + url.PathEscape(id)}
			},
			Decode: validated(decodeEnvelope[vacancyResponse], func(r vacancyResponse) error {
				if r.Vacancy == nil {
					return errMissingVacancy
				}
				return nil
			}),
		},
		apply: Endpoint[ApplyRequest, struct{}]{
			Build: func(r ApplyRequest) *transport.Request {
				return &transport.Request{
					Method: http.MethodPost,
					Path:   "/vacancies/" + url.PathEscape(r.VacancyID) + "/apply",
					Form:   r.form(),
				}
			},
			Decode: decodeAck,
		},
		listPublic: publicListEndpoint(),
		getPublic:  publicDetailEndpoint(),
	}
}

// List returns one page of vacancies. Pass the previous NextCursor back
// verbatim in Cursor to get the next page.
func (v *VacanciesAPI) List(ctx context.Context, p ListParams) (VacancyPage, error) {
	return v.list.Call(ctx, v.doer, p)
}

func (v *VacanciesAPI) Get(ctx context.Context, id string) (*models.Vacancy, error) {
	resp, err := v.get.Call(ctx, v.doer, id)
	if err != nil {
		return nil, err
	}
	return resp.Vacancy, nil
}

// Apply uploads an application as multipart/form-data.
func (v *VacanciesAPI) Apply(ctx context.Context, r ApplyRequest) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := v.apply.Call(ctx, v.doer, r)
	return err
}
