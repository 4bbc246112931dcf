package rest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// MAX_NAMES_PER_REQUEST caps how many names one request may resolve
const MAX_NAMES_PER_REQUEST = 20

// GetProjectsQueryParams holds query parameters for GET /projects
type GetProjectsQueryParams struct {
	Names  []string `form:"name"`
	Tokens []string `form:"token"`
}

// GetPeopleQueryParams holds query parameters for GET /people
type GetPeopleQueryParams struct {
	Names   []string `form:"name"`
	Twitter []string `form:"twitter"`
}

// ParseGetProjectsQuery parses query parameters for GET /projects
func ParseGetProjectsQuery(c *gin.Context) (*GetProjectsQueryParams, error) {
	var params GetProjectsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	params.Names = splitValues(params.Names)
	params.Tokens = splitValues(params.Tokens)

	if len(params.Names) == 0 && len(params.Tokens) == 0 {
		return nil, errors.New("at least one name or token is required")
	}
	if len(params.Names)+len(params.Tokens) > MAX_NAMES_PER_REQUEST {
		return nil, fmt.Errorf("at most %d names and tokens are allowed", MAX_NAMES_PER_REQUEST)
	}

	return &params, nil
}

// ParseGetPeopleQuery parses query parameters for GET /people
func ParseGetPeopleQuery(c *gin.Context) (*GetPeopleQueryParams, error) {
	var params GetPeopleQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	params.Names = splitValues(params.Names)
	params.Twitter = splitValues(params.Twitter)

	switch {
	case len(params.Names) == 0 && len(params.Twitter) == 0:
		return nil, errors.New("either name or twitter is required")
	case len(params.Names) > 0 && len(params.Twitter) > 0:
		return nil, errors.New("name and twitter cannot be combined")
	case len(params.Names) > MAX_NAMES_PER_REQUEST || len(params.Twitter) > MAX_NAMES_PER_REQUEST:
		return nil, fmt.Errorf("at most %d names are allowed", MAX_NAMES_PER_REQUEST)
	}

	return &params, nil
}

// splitValues accepts both repeated and comma separated parameters, dropping blanks and duplicates
func splitValues(values []string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			result = append(result, part)
		}
	}
	return result
}
