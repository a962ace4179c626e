package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/transport"
)

// PublicListParams filters the public catalogue. Zero values are not sent.
type PublicListParams struct {
	Page  int
	Limit int
	Query string
}

func (p PublicListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	return v
}

func publicListEndpoint() Endpoint[PublicListParams, []models.PublicVacancy] {
	return Endpoint[PublicListParams, []models.PublicVacancy]{
		Build: func(p PublicListParams) *transport.Request {
			return &transport.Request{Method: http.MethodGet, Path: "/public/vacancies", Query: p.values(), Public: true}
		},
		Decode: decodePublicList,
	}
}

func publicDetailEndpoint() Endpoint[string, *models.PublicVacancy] {
	return Endpoint[string, *models.PublicVacancy]{
		Build: func(slug string) *transport.Request {
			return &transport.Request{Method: http.MethodGet, Path: "/public/vacancies/" + url.PathEscape(slug), Public: true}
		},
		Decode: decodeJSON[*models.PublicVacancy],
	}
}

// decodePublicList accepts both a bare array and {items: [...]}.
func decodePublicList(req *transport.Request, resp *transport.Response) ([]models.PublicVacancy, error) {
	body := bytes.TrimSpace(resp.Body)
	if len(body) > 0 && body[0] == '[' {
		return decodeJSON[[]models.PublicVacancy](req, resp)
	}

	var wrapped struct {
		Items []models.PublicVacancy `json:"items"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, transport.Malformed(req, resp.StatusCode, err)
	}
	return wrapped.Items, nil
}

// ListPublic returns the unauthenticated vacancy catalogue.
func (v *VacanciesAPI) ListPublic(ctx context.Context, p PublicListParams) ([]models.PublicVacancy, error) {
	return v.listPublic.Call(ctx, v.doer, p)
}

// GetPublicBySlug returns a catalogue entry, or nil when it does not exist.
func (v *VacanciesAPI) GetPublicBySlug(ctx context.Context, slug string) (*models.PublicVacancy, error) {
	out, err := v.getPublic.Call(ctx, v.doer, slug)
	if errors.Is(err, transport.ErrNotFound) {
		return nil, nil
	}
	return out, err
}
