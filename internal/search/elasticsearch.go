package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
)

// ESGateway runs profile searches directly against an elasticsearch index
// instead of going through the backend's filtered-search endpoint.
type ESGateway struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
	logger   logger.Logger
}

// NewESGateway creates an index-backed search gateway.
func NewESGateway(client *elasticsearch.Client, index string, pageSize int, log logger.Logger) *ESGateway {
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}
	return &ESGateway{
		client:   client,
		index:    index,
		pageSize: pageSize,
		logger:   log.WithFields(map[string]interface{}{"component": "search-es"}),
	}
}

func (g *ESGateway) Search(ctx context.Context, c Criteria) ([]backend.Profile, error) {
	body, err := json.Marshal(buildProfileQuery(c))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	from := 0
	size := g.pageSize
	req := esapi.SearchRequest{
		Index: []string{g.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	res, err := req.Do(ctx, g.client)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("search query failed: %s", res.String()))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	profiles := make([]backend.Profile, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		var p backend.Profile
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			g.logger.Warn("skipping unreadable profile document", map[string]interface{}{
				"documentId": hit.ID,
				"error":      err.Error(),
			})
			continue
		}
		if p.ID == "" {
			p.ID = hit.ID
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// buildProfileQuery translates the criteria into a bool query. Keyword
// terms go into must clauses, exact selectors into filters, excluded
// companies into must_not.
func buildProfileQuery(c Criteria) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}
	mustNotClauses := []interface{}{}

	if keyword := strings.TrimSpace(c.Keyword); keyword != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keyword,
				"fields": []string{"name^3", "skills^2", "current_designation", "current_company"},
				"type":   "best_fields",
			},
		})
	}

	if c.Keywords != "" {
		operator := "and"
		if c.KeywordsMode == "any" {
			operator = "or"
		}
		mustClauses = append(mustClauses, map[string]interface{}{
			"match": map[string]interface{}{
				"skills": map[string]interface{}{
					"query":    c.Keywords,
					"operator": operator,
				},
			},
		})
	}

	for field, value := range map[string]string{
		"gender":          c.Gender,
		"category":        c.Category,
		"region":          c.Region,
		"applicationType": c.ApplicationType,
		"education":       c.Education,
		"jobRole":         c.JobRole,
		"department":      c.Department,
		"minimumLevel":    c.MinimumLevel,
	} {
		if value != "" {
			filterClauses = append(filterClauses, map[string]interface{}{
				"term": map[string]interface{}{field: value},
			})
		}
	}
	if c.CurrentCompany != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"current_company": c.CurrentCompany},
		})
	}
	if c.CurrentRole != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"current_designation": c.CurrentRole},
		})
	}

	for field, values := range map[string][]string{
		"languages":         c.Languages,
		"country":           c.Countries,
		"state":             c.States,
		"institute":         c.Institutes,
		"preferredIndustry": c.PreferredIndustry,
	} {
		if len(values) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{field: values},
			})
		}
	}

	if rangeClause := numberRange("experience", c.MinExp, c.MaxExp); rangeClause != nil {
		filterClauses = append(filterClauses, rangeClause)
	}
	if rangeClause := numberRange("age", c.AgeFrom, c.AgeTo); rangeClause != nil {
		filterClauses = append(filterClauses, rangeClause)
	}
	if c.FromDate != "" || c.ToDate != "" {
		bounds := map[string]interface{}{}
		if c.FromDate != "" {
			bounds["gte"] = c.FromDate
		}
		if c.ToDate != "" {
			bounds["lte"] = c.ToDate
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"createdAt": bounds},
		})
	}

	if len(c.AntiCompanies) > 0 {
		mustNotClauses = append(mustNotClauses, map[string]interface{}{
			"terms": map[string]interface{}{"current_company": c.AntiCompanies},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": mustClauses}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(mustNotClauses) > 0 {
		boolQuery["must_not"] = mustNotClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}

func numberRange(field, min, max string) map[string]interface{} {
	bounds := map[string]interface{}{}
	if v, err := strconv.ParseFloat(min, 64); err == nil {
		bounds["gte"] = v
	}
	if v, err := strconv.ParseFloat(max, 64); err == nil {
		bounds["lte"] = v
	}
	if len(bounds) == 0 {
		return nil
	}
	return map[string]interface{}{
		"range": map[string]interface{}{field: bounds},
	}
}
