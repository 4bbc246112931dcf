package aggregator

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// Engine assembles project and people profiles from the knowledge base
type Engine struct {
	projects  store.ProjectStore
	snapshots store.SnapshotStore
}

// NewEngine creates an engine. A nil snapshot store yields profiles without snapshots.
func NewEngine(projects store.ProjectStore, snapshots store.SnapshotStore) *Engine {
	return &Engine{projects: projects, snapshots: snapshots}
}

// InvestorProfile is an investor matched from the seeds with its activity
type InvestorProfile struct {
	Info        store.Row   `json:"vc_info"`
	Investments []store.Row `json:"investor_investments"`
	Fundraising []store.Row `json:"investor_fundraising"`
}

// ResolveProject returns one profile per project whose name or token matches a seed.
// Any relation failure aborts the call, except governance snapshots.
func (e *Engine) ResolveProject(ctx context.Context, names []string, tokenNames []string) ([]ProjectProfile, error) {
	seeds := uniqueNonEmpty(append(append([]string{}, names...), tokenNames...))
	if len(seeds) == 0 {
		return []ProjectProfile{}, nil
	}

	projects, err := e.projects.FindProjectsByNameOrToken(ctx, seeds)
	if err != nil {
		return nil, err
	}

	investors, err := e.resolveInvestors(ctx, uniqueNonEmpty(names))
	if err != nil {
		return nil, err
	}

	if len(projects) == 0 && len(investors) == 0 {
		logger.InfoCtx(ctx, "No project or investor matched the seeds", zap.Strings("seeds", seeds))
		return []ProjectProfile{}, nil
	}

	// matched investors are not part of the profile list
	logger.DebugCtx(ctx, "Resolved investors", zap.Int("count", len(investors)))

	ids := make([]int64, 0, len(projects))
	displayNames := make([]string, 0, len(projects))
	for _, p := range projects {
		id, _ := p.Int64(store.COLUMN_PROJECT_ID)
		ids = append(ids, id)
		if name := p.String("project_name"); name != "" {
			displayNames = append(displayNames, name)
		}
	}

	relations := make(map[store.Relation]map[int64][]store.Row, len(store.ProjectRelations))
	for _, relation := range store.ProjectRelations {
		grouped, err := e.projects.GetRelation(ctx, relation, ids)
		if err != nil {
			return nil, err
		}
		relations[relation] = grouped
	}

	commits, err := e.projects.GetRecentCommits(ctx, ids, domain.RECENT_COMMITS_LIMIT)
	if err != nil {
		return nil, err
	}

	snapshots := e.resolveSnapshots(ctx, uniqueNonEmpty(displayNames))

	active, err := e.projects.GetActiveTeamMembers(ctx, ids)
	if err != nil {
		return nil, err
	}

	var memberNames []string
	for _, id := range ids {
		for _, member := range active[id] {
			memberNames = append(memberNames, member.String("name"))
		}
	}
	people, err := e.ResolvePeople(ctx, memberNames)
	if err != nil {
		return nil, err
	}

	fundraisingLinks, err := e.fundraisingTwitterLinks(ctx, relations[store.RelationProjectFundraising])
	if err != nil {
		return nil, err
	}

	handles := make(map[int64]map[string]string, len(ids))
	for _, id := range ids {
		handles[id] = domain.MergeTwitterLinks(teamTwitterLinks(active[id], people), fundraisingLinks[id])
	}

	activity, err := e.recentActivity(ctx, handles)
	if err != nil {
		return nil, err
	}

	profiles := make([]ProjectProfile, 0, len(projects))
	for i, project := range projects {
		id := ids[i]

		details := make(map[string]PersonProfile)
		for _, member := range active[id] {
			name := member.String("name")
			if person, ok := people[name]; ok {
				details[name] = person
			}
		}

		projectSnapshots := snapshots[project.String("project_name")]
		if projectSnapshots == nil {
			projectSnapshots = []bson.M{}
		}

		recent := activity[id]
		if recent == nil {
			recent = map[string][]store.Row{}
		}

		profiles = append(profiles, ProjectProfile{
			BasicInfo:          project,
			Ecosystems:         rowsOrEmpty(relations[store.RelationProjectEcosystems][id]),
			Fundraising:        rowsOrEmpty(relations[store.RelationProjectFundraising][id]),
			FundraisingRounds:  rowsOrEmpty(relations[store.RelationProjectFundraisingRounds][id]),
			Investments:        rowsOrEmpty(relations[store.RelationProjectInvestments][id]),
			SocialLinks:        rowsOrEmpty(relations[store.RelationProjectSocialLinks][id]),
			SubsidiaryOrgs:     rowsOrEmpty(relations[store.RelationProjectSubsidiaryOrgs][id]),
			Tags:               rowsOrEmpty(relations[store.RelationProjectTags][id]),
			TeamMembers:        rowsOrEmpty(relations[store.RelationProjectTeamMembers][id]),
			ActiveTeamMembers:  rowsOrEmpty(active[id]),
			GithubCommits:      rowsOrEmpty(commits[id]),
			TeamMembersDetails: details,
			TokenContracts:     rowsOrEmpty(relations[store.RelationProjectTokenContracts][id]),
			TokenUnlockEvents:  rowsOrEmpty(relations[store.RelationProjectTokenUnlockEvents][id]),
			Snapshots:          projectSnapshots,
			RecentActivity:     recent,
		})
	}

	return profiles, nil
}

// resolveInvestors fuzzy-matches seeds against the investor list and promotes the matches
// to the investor master table. Master fields win over list fields.
func (e *Engine) resolveInvestors(ctx context.Context, seeds []string) (map[int64]InvestorProfile, error) {
	listed, err := e.projects.FindInvestorList(ctx, seeds)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return map[int64]InvestorProfile{}, nil
	}

	var names []string
	for _, row := range listed {
		names = append(names, row.String("name"))
	}
	masters, err := e.projects.FindInvestorsByNames(ctx, uniqueNonEmpty(names))
	if err != nil {
		return nil, err
	}
	byName := store.IndexFirstByString(masters, "name")

	merged := make(map[int64]store.Row)
	var ids []int64
	for _, row := range listed {
		name := row.String("name")
		if name == "" {
			continue
		}
		info := row.Merge(byName[name])
		id, ok := info.Int64(store.COLUMN_INVESTOR_ID)
		if !ok || id == 0 {
			continue
		}
		if _, seen := merged[id]; !seen {
			ids = append(ids, id)
		}
		merged[id] = info
	}

	investments, err := e.projects.GetRelation(ctx, store.RelationInvestorInvestments, ids)
	if err != nil {
		return nil, err
	}
	fundraising, err := e.projects.GetRelation(ctx, store.RelationInvestorFundraising, ids)
	if err != nil {
		return nil, err
	}

	investors := make(map[int64]InvestorProfile, len(ids))
	for _, id := range ids {
		investors[id] = InvestorProfile{
			Info:        merged[id],
			Investments: rowsOrEmpty(investments[id]),
			Fundraising: rowsOrEmpty(fundraising[id]),
		}
	}

	return investors, nil
}

// resolveSnapshots never fails; a document store error yields no snapshots
func (e *Engine) resolveSnapshots(ctx context.Context, displayNames []string) map[string][]bson.M {
	if e.snapshots == nil || len(displayNames) == 0 {
		return map[string][]bson.M{}
	}

	snapshots, err := e.snapshots.GetRecentSnapshots(ctx, displayNames, domain.SNAPSHOTS_LIMIT)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to get governance snapshots, continuing without them",
			zap.Strings("projects", displayNames),
			zap.Error(err),
		)
		return map[string][]bson.M{}
	}

	return snapshots
}

// ResolvePeople returns a profile per name found in the people table.
// When several people share a name the first row wins. Unknown names are absent.
func (e *Engine) ResolvePeople(ctx context.Context, names []string) (map[string]PersonProfile, error) {
	names = distinctNames(names)
	if len(names) == 0 {
		return map[string]PersonProfile{}, nil
	}

	rows, err := e.projects.FindPeopleByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	byName := store.IndexFirstByString(rows, "name")

	basics := make(map[string]store.Row, len(byName))
	for name, row := range byName {
		basics[name] = row
	}

	return e.assemblePeople(ctx, basics)
}

// ResolvePeopleByTwitter returns a profile per username whose x.com profile link belongs to a person
func (e *Engine) ResolvePeopleByTwitter(ctx context.Context, usernames []string) (map[string]PersonProfile, error) {
	links := twitterLinks(usernames)
	if len(links) == 0 {
		return map[string]PersonProfile{}, nil
	}

	rows, err := e.projects.FindPeopleByTwitterLinks(ctx, links)
	if err != nil {
		return nil, err
	}

	basics := make(map[string]store.Row, len(rows))
	for _, row := range rows {
		username := domain.ExtractTwitterUsername(row.String("link"))
		if username == "" {
			continue
		}
		basics[username] = row
	}

	return e.assemblePeople(ctx, basics)
}

// ProjectsByTwitter returns the project row per username whose x.com profile link belongs to a project
func (e *Engine) ProjectsByTwitter(ctx context.Context, usernames []string) (map[string]store.Row, error) {
	links := twitterLinks(usernames)
	if len(links) == 0 {
		return map[string]store.Row{}, nil
	}

	rows, err := e.projects.FindProjectsByTwitterLinks(ctx, links)
	if err != nil {
		return nil, err
	}

	projects := make(map[string]store.Row, len(rows))
	for _, row := range rows {
		if username := domain.ExtractTwitterUsername(row.String("link")); username != "" {
			projects[username] = row
		}
	}

	return projects, nil
}

// ProjectTags returns each project matching a name or token with its tag texts, in project id order
func (e *Engine) ProjectTags(ctx context.Context, projects []string, tokens []string) ([]ProjectTags, error) {
	projects = uniqueNonEmpty(projects)
	tokens = uniqueNonEmpty(tokens)
	if len(projects) == 0 && len(tokens) == 0 {
		return []ProjectTags{}, nil
	}

	rows, err := e.projects.GetProjectTags(ctx, projects, tokens)
	if err != nil {
		return nil, err
	}

	var result []ProjectTags
	index := make(map[int64]int)
	for _, row := range rows {
		id, _ := row.Int64(store.COLUMN_PROJECT_ID)
		i, ok := index[id]
		if !ok {
			i = len(result)
			index[id] = i
			result = append(result, ProjectTags{
				ProjectName: row.String("project_name"),
				TokenName:   row.String("token_name"),
				Tags:        []string{},
			})
		}
		if tag := row.String("tag"); tag != "" {
			result[i].Tags = append(result[i].Tags, tag)
		}
	}

	if result == nil {
		return []ProjectTags{}, nil
	}
	return result, nil
}

// assemblePeople fetches every person relation for the given basic rows, keyed by caller key
func (e *Engine) assemblePeople(ctx context.Context, basics map[string]store.Row) (map[string]PersonProfile, error) {
	var ids []int64
	seen := make(map[int64]struct{})
	for _, row := range basics {
		id, ok := row.Int64(store.COLUMN_PEOPLE_ID)
		if !ok {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	related := make(map[store.Relation]map[int64][]store.Row, 4)
	for _, relation := range []store.Relation{
		store.RelationPersonEducation,
		store.RelationPersonSocialLinks,
		store.RelationPersonWork,
		store.RelationPersonInvestments,
	} {
		grouped, err := e.projects.GetRelation(ctx, relation, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve people: %w", err)
		}
		related[relation] = grouped
	}

	people := make(map[string]PersonProfile, len(basics))
	for key, row := range basics {
		profile := emptyPersonProfile(row)
		if id, ok := row.Int64(store.COLUMN_PEOPLE_ID); ok {
			profile.Education = rowsOrEmpty(related[store.RelationPersonEducation][id])
			profile.SocialLinks = rowsOrEmpty(related[store.RelationPersonSocialLinks][id])
			profile.WorkExperience = rowsOrEmpty(related[store.RelationPersonWork][id])
			profile.Investments = rowsOrEmpty(related[store.RelationPersonInvestments][id])
		}
		people[key] = profile
	}

	return people, nil
}

func twitterLinks(usernames []string) []string {
	var links []string
	for _, username := range uniqueNonEmpty(usernames) {
		links = append(links, domain.TwitterProfileLink(username))
	}
	return links
}

// uniqueNonEmpty trims values and drops blanks and exact duplicates, keeping first-seen order
func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// distinctNames drops blank names and exact duplicates without trimming,
// so lookups and profile keys use the stored spelling
func distinctNames(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
