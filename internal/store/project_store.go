package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/feral-file/ff-project-intel/internal/domain"
)

// Relation names a child table keyed by its owner's id
type Relation string

const (
	RelationProjectEcosystems        Relation = "projects_ecosystems"
	RelationProjectFundraising       Relation = "projects_fundraising"
	RelationProjectFundraisingRounds Relation = "projects_fundraising_rounds"
	RelationProjectInvestments       Relation = "projects_investments"
	RelationProjectSocialLinks       Relation = "projects_social_links"
	RelationProjectSubsidiaryOrgs    Relation = "projects_subsidiary_orgs"
	RelationProjectTags              Relation = "projects_tags"
	RelationProjectTeamMembers       Relation = "projects_team_members"
	RelationProjectTokenContracts    Relation = "projects_token_contracts"
	RelationProjectTokenUnlockEvents Relation = "projects_token_unlock_events"

	RelationPersonEducation   Relation = "people_education_experience"
	RelationPersonWork        Relation = "people_work_experience"
	RelationPersonInvestments Relation = "people_investments_info"
	RelationPersonSocialLinks Relation = "people_social_links"

	RelationInvestorSocialLinks Relation = "investors_social_links"
	RelationInvestorInvestments Relation = "investors_investments"
	RelationInvestorFundraising Relation = "investors_fundraising"
)

const (
	COLUMN_PROJECT_ID  = "project_id"
	COLUMN_PEOPLE_ID   = "people_id"
	COLUMN_INVESTOR_ID = "investor_id"
)

// ProjectRelations lists every project child relation in profile order
var ProjectRelations = []Relation{
	RelationProjectEcosystems,
	RelationProjectFundraising,
	RelationProjectFundraisingRounds,
	RelationProjectInvestments,
	RelationProjectSocialLinks,
	RelationProjectSubsidiaryOrgs,
	RelationProjectTags,
	RelationProjectTeamMembers,
	RelationProjectTokenContracts,
	RelationProjectTokenUnlockEvents,
}

// KeyColumn returns the column holding the owner id
func (r Relation) KeyColumn() (string, error) {
	name := string(r)
	switch {
	case strings.HasPrefix(name, "projects_"):
		return COLUMN_PROJECT_ID, nil
	case strings.HasPrefix(name, "people_"):
		return COLUMN_PEOPLE_ID, nil
	case strings.HasPrefix(name, "investors_"):
		return COLUMN_INVESTOR_ID, nil
	default:
		return "", fmt.Errorf("unknown relation: %s", name)
	}
}

var entityTables = map[domain.EntityKind]string{
	domain.EntityProject:  "projects",
	domain.EntityPerson:   "people",
	domain.EntityInvestor: "investors",
}

// EntitySocialLinks returns the social link relation of an entity kind
func EntitySocialLinks(kind domain.EntityKind) Relation {
	switch kind {
	case domain.EntityPerson:
		return RelationPersonSocialLinks
	case domain.EntityInvestor:
		return RelationInvestorSocialLinks
	default:
		return RelationProjectSocialLinks
	}
}

// EntityKeyColumn returns the id column of an entity kind
func EntityKeyColumn(kind domain.EntityKind) string {
	switch kind {
	case domain.EntityPerson:
		return COLUMN_PEOPLE_ID
	case domain.EntityInvestor:
		return COLUMN_INVESTOR_ID
	default:
		return COLUMN_PROJECT_ID
	}
}

// ProjectStore reads the project knowledge base. Every batched lookup
// short-circuits on empty input without touching the store.
//
//go:generate mockgen -source=project_store.go -destination=../mocks/project_store.go -package=mocks -mock_names=ProjectStore=MockProjectStore
type ProjectStore interface {
	// FindProjectsByNameOrToken returns projects whose name or token matches any seed, one row per project id
	FindProjectsByNameOrToken(ctx context.Context, seeds []string) ([]Row, error)
	// FindInvestorList returns investors_list rows whose name contains any seed, case-insensitively
	FindInvestorList(ctx context.Context, seeds []string) ([]Row, error)
	// FindInvestorsByNames returns investors with an exact name match
	FindInvestorsByNames(ctx context.Context, names []string) ([]Row, error)
	// GetRelation returns the rows of a child relation grouped by owner id
	GetRelation(ctx context.Context, relation Relation, ids []int64) (map[int64][]Row, error)
	// GetRecentCommits returns the most recent github commits across the projects grouped by project id
	GetRecentCommits(ctx context.Context, projectIDs []int64, limit int) (map[int64][]Row, error)
	// GetActiveTeamMembers returns team members that are not former members grouped by project id
	GetActiveTeamMembers(ctx context.Context, projectIDs []int64) (map[int64][]Row, error)
	// FindPeopleByNames returns people with an exact name match
	FindPeopleByNames(ctx context.Context, names []string) ([]Row, error)
	// FindEntitiesByURLs returns the first entity of a kind per exact url
	FindEntitiesByURLs(ctx context.Context, kind domain.EntityKind, urls []string) (map[string]Row, error)
	// GetRecentTweets returns tweets newer than window per username, newest first, at most perUser each
	GetRecentTweets(ctx context.Context, usernames []string, window time.Duration, perUser int) (map[string][]Row, error)
	// FindPeopleByTwitterLinks returns people joined with their matching social link rows
	FindPeopleByTwitterLinks(ctx context.Context, links []string) ([]Row, error)
	// FindProjectsByTwitterLinks returns projects joined with their matching social link rows
	FindProjectsByTwitterLinks(ctx context.Context, links []string) ([]Row, error)
	// GetProjectTags returns project name, token name and tag text for projects matching names or tokens
	GetProjectTags(ctx context.Context, names []string, tokens []string) ([]Row, error)
}

type mysqlProjectStore struct {
	manager *Manager
}

// NewProjectStore creates a project store over the relational store
func NewProjectStore(manager *Manager) ProjectStore {
	return &mysqlProjectStore{manager: manager}
}

func (s *mysqlProjectStore) FindProjectsByNameOrToken(ctx context.Context, seeds []string) ([]Row, error) {
	if len(seeds) == 0 {
		return []Row{}, nil
	}

	rows, err := s.manager.Query(ctx,
		"SELECT * FROM projects WHERE project_name IN ? OR token_name IN ?", seeds, seeds)
	if err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}

	return DedupeByInt64(rows, COLUMN_PROJECT_ID), nil
}

func (s *mysqlProjectStore) FindInvestorList(ctx context.Context, seeds []string) ([]Row, error) {
	if len(seeds) == 0 {
		return []Row{}, nil
	}

	conditions := make([]string, len(seeds))
	args := make([]any, len(seeds))
	for i, seed := range seeds {
		conditions[i] = "LOWER(name) LIKE LOWER(?)"
		args[i] = "%" + escapeLike(seed) + "%"
	}

	rows, err := s.manager.Query(ctx,
		"SELECT * FROM investors_list WHERE "+strings.Join(conditions, " OR "), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find investors list: %w", err)
	}

	return rows, nil
}

func (s *mysqlProjectStore) FindInvestorsByNames(ctx context.Context, names []string) ([]Row, error) {
	if len(names) == 0 {
		return []Row{}, nil
	}

	rows, err := s.manager.Query(ctx, "SELECT * FROM investors WHERE name IN ?", names)
	if err != nil {
		return nil, fmt.Errorf("failed to find investors: %w", err)
	}

	return rows, nil
}

func (s *mysqlProjectStore) GetRelation(ctx context.Context, relation Relation, ids []int64) (map[int64][]Row, error) {
	key, err := relation.KeyColumn()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return map[int64][]Row{}, nil
	}

	// table and column names come from the Relation constants
	rows, err := s.manager.Query(ctx,
		fmt.Sprintf("SELECT * FROM %s WHERE %s IN ?", relation, key), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", relation, err)
	}

	return GroupByInt64(rows, key), nil
}

func (s *mysqlProjectStore) GetRecentCommits(ctx context.Context, projectIDs []int64, limit int) (map[int64][]Row, error) {
	if len(projectIDs) == 0 {
		return map[int64][]Row{}, nil
	}

	rows, err := s.manager.Query(ctx,
		"SELECT * FROM github_commits WHERE project_id IN ? ORDER BY commit_date DESC LIMIT ?", projectIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get github commits: %w", err)
	}

	return GroupByInt64(rows, COLUMN_PROJECT_ID), nil
}

func (s *mysqlProjectStore) GetActiveTeamMembers(ctx context.Context, projectIDs []int64) (map[int64][]Row, error) {
	if len(projectIDs) == 0 {
		return map[int64][]Row{}, nil
	}

	rows, err := s.manager.Query(ctx,
		"SELECT * FROM projects_team_members WHERE project_id IN ? AND (is_former = 0 OR is_former IS NULL)", projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get active team members: %w", err)
	}

	return GroupByInt64(rows, COLUMN_PROJECT_ID), nil
}

func (s *mysqlProjectStore) FindPeopleByNames(ctx context.Context, names []string) ([]Row, error) {
	if len(names) == 0 {
		return []Row{}, nil
	}

	rows, err := s.manager.Query(ctx, "SELECT * FROM people WHERE name IN ?", names)
	if err != nil {
		return nil, fmt.Errorf("failed to find people: %w", err)
	}

	return rows, nil
}

func (s *mysqlProjectStore) FindEntitiesByURLs(ctx context.Context, kind domain.EntityKind, urls []string) (map[string]Row, error) {
	table, ok := entityTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind: %s", kind)
	}
	if len(urls) == 0 {
		return map[string]Row{}, nil
	}

	rows, err := s.manager.Query(ctx,
		fmt.Sprintf("SELECT * FROM %s WHERE url IN ? ORDER BY %s", table, EntityKeyColumn(kind)), urls)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s by url: %w", table, err)
	}

	return IndexFirstByString(rows, "url"), nil
}

func (s *mysqlProjectStore) GetRecentTweets(ctx context.Context, usernames []string, window time.Duration, perUser int) (map[string][]Row, error) {
	if len(usernames) == 0 {
		return map[string][]Row{}, nil
	}

	rows, err := s.manager.Query(ctx,
		"SELECT * FROM tweets WHERE twitter_username IN ? AND tweet_date > FROM_UNIXTIME(UNIX_TIMESTAMP() - ?) ORDER BY twitter_username, tweet_date DESC",
		usernames, int64(window/time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to get recent tweets: %w", err)
	}

	grouped := make(map[string][]Row)
	for _, row := range rows {
		username := row.String("twitter_username")
		if perUser > 0 && len(grouped[username]) >= perUser {
			continue
		}
		grouped[username] = append(grouped[username], row)
	}

	return grouped, nil
}

func (s *mysqlProjectStore) FindPeopleByTwitterLinks(ctx context.Context, links []string) ([]Row, error) {
	if len(links) == 0 {
		return []Row{}, nil
	}

	rows, err := s.manager.Query(ctx,
		"SELECT ppl.*, psl.* FROM people_social_links psl JOIN people ppl ON psl.people_id = ppl.people_id WHERE psl.link IN ?", links)
	if err != nil {
		return nil, fmt.Errorf("failed to find people by twitter links: %w", err)
	}

	return rows, nil
}

func (s *mysqlProjectStore) FindProjectsByTwitterLinks(ctx context.Context, links []string) ([]Row, error) {
	if len(links) == 0 {
		return []Row{}, nil
	}

	rows, err := s.manager.Query(ctx,
		"SELECT p.*, ps.* FROM projects_social_links ps JOIN projects p ON ps.project_id = p.project_id WHERE ps.link IN ?", links)
	if err != nil {
		return nil, fmt.Errorf("failed to find projects by twitter links: %w", err)
	}

	return rows, nil
}

func (s *mysqlProjectStore) GetProjectTags(ctx context.Context, names []string, tokens []string) ([]Row, error) {
	if len(names) == 0 && len(tokens) == 0 {
		return []Row{}, nil
	}
	// IN () is invalid SQL, keep the placeholder lists non-empty
	if len(names) == 0 {
		names = tokens
	}
	if len(tokens) == 0 {
		tokens = names
	}

	rows, err := s.manager.Query(ctx,
		`SELECT p.project_id, p.project_name, p.token_name, t.text AS tag
		FROM projects p LEFT JOIN projects_tags t ON t.project_id = p.project_id
		WHERE p.project_name IN ? OR p.token_name IN ?
		ORDER BY p.project_id`, names, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to get project tags: %w", err)
	}

	return rows, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
