package aggregator_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/feral-file/ff-project-intel/internal/aggregator"
	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/mocks"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// testEngineMocks contains all the mocks needed for testing the engine
type testEngineMocks struct {
	ctrl      *gomock.Controller
	projects  *mocks.MockProjectStore
	snapshots *mocks.MockSnapshotStore
	engine    *aggregator.Engine
}

func setupTestEngine(t *testing.T) *testEngineMocks {
	ctrl := gomock.NewController(t)
	projects := mocks.NewMockProjectStore(ctrl)
	snapshots := mocks.NewMockSnapshotStore(ctrl)

	return &testEngineMocks{
		ctrl:      ctrl,
		projects:  projects,
		snapshots: snapshots,
		engine:    aggregator.NewEngine(projects, snapshots),
	}
}

var emptyGroups = map[int64][]store.Row{}

// expectProjectRelations expects one query per project child relation.
// Relations missing from groups return no rows.
func (m *testEngineMocks) expectProjectRelations(ids []int64, groups map[store.Relation]map[int64][]store.Row) {
	for _, relation := range store.ProjectRelations {
		grouped, ok := groups[relation]
		if !ok {
			grouped = emptyGroups
		}
		m.projects.EXPECT().GetRelation(gomock.Any(), relation, ids).Return(grouped, nil)
	}
}

// expectPeopleRelations expects the four person relation queries
func (m *testEngineMocks) expectPeopleRelations(ids []int64, socials map[int64][]store.Row) {
	if socials == nil {
		socials = emptyGroups
	}
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationPersonEducation, ids).Return(emptyGroups, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationPersonSocialLinks, ids).Return(socials, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationPersonWork, ids).Return(emptyGroups, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationPersonInvestments, ids).Return(emptyGroups, nil)
}

func TestResolveProject_SingleProjectDefaultsEveryRelation(t *testing.T) {
	m := setupTestEngine(t)
	ctx := context.Background()
	ids := []int64{7}

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Uniswap"}).
		Return([]store.Row{{"project_id": int64(7), "project_name": "Uniswap"}}, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Uniswap"}).Return([]store.Row{}, nil)
	m.expectProjectRelations(ids, nil)
	m.projects.EXPECT().GetRecentCommits(gomock.Any(), ids, domain.RECENT_COMMITS_LIMIT).Return(emptyGroups, nil)
	m.snapshots.EXPECT().GetRecentSnapshots(gomock.Any(), []string{"Uniswap"}, domain.SNAPSHOTS_LIMIT).
		Return(map[string][]bson.M{}, nil)
	m.projects.EXPECT().GetActiveTeamMembers(gomock.Any(), ids).Return(emptyGroups, nil)

	profiles, err := m.engine.ResolveProject(ctx, []string{"Uniswap"}, nil)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	p := profiles[0]
	id, ok := p.BasicInfo.Int64("project_id")
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	// every relation serializes as an empty collection, never null
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"ecosystems", "fundraising", "fundraising_rounds", "investments", "social_links",
		"subsidiary_orgs", "tags", "team_members", "active_team_members", "github_commit_msg",
		"token_contracts", "token_unlock_events", "snapshots",
	} {
		assert.Equal(t, []any{}, decoded[key], key)
	}
	assert.Equal(t, map[string]any{}, decoded["team_members_details"])
	assert.Equal(t, map[string]any{}, decoded["recent_activity"])
}

func TestResolveProject_NothingFound(t *testing.T) {
	m := setupTestEngine(t)

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Nope", "NOPE"}).Return([]store.Row{}, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Nope"}).Return([]store.Row{}, nil)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{"Nope"}, []string{"NOPE"})
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestResolveProject_EmptySeeds(t *testing.T) {
	m := setupTestEngine(t)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{" ", ""}, nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestResolveProject_SnapshotFailureIsGuarded(t *testing.T) {
	m := setupTestEngine(t)
	ids := []int64{7}

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Uniswap"}).
		Return([]store.Row{{"project_id": int64(7), "project_name": "Uniswap"}}, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Uniswap"}).Return(nil, nil)
	m.expectProjectRelations(ids, nil)
	m.projects.EXPECT().GetRecentCommits(gomock.Any(), ids, domain.RECENT_COMMITS_LIMIT).Return(emptyGroups, nil)
	m.snapshots.EXPECT().GetRecentSnapshots(gomock.Any(), []string{"Uniswap"}, domain.SNAPSHOTS_LIMIT).
		Return(nil, errors.New("server selection timeout"))
	m.projects.EXPECT().GetActiveTeamMembers(gomock.Any(), ids).Return(emptyGroups, nil)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{"Uniswap"}, nil)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Empty(t, profiles[0].Snapshots)
	assert.NotNil(t, profiles[0].Snapshots)
}

func TestResolveProject_RelationFailureAborts(t *testing.T) {
	m := setupTestEngine(t)
	queryErr := errors.New("table projects_ecosystems doesn't exist")

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Uniswap"}).
		Return([]store.Row{{"project_id": int64(7), "project_name": "Uniswap"}}, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Uniswap"}).Return(nil, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationProjectEcosystems, []int64{7}).Return(nil, queryErr)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{"Uniswap"}, nil)
	require.ErrorIs(t, err, queryErr)
	assert.Nil(t, profiles)
}

func TestResolveProject_InvestorsOnlyYieldNoProfiles(t *testing.T) {
	m := setupTestEngine(t)

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Paradigm"}).Return(nil, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Paradigm"}).
		Return([]store.Row{{"id": int64(1), "name": "Paradigm", "tier": "1"}}, nil)
	m.projects.EXPECT().FindInvestorsByNames(gomock.Any(), []string{"Paradigm"}).
		Return([]store.Row{{"investor_id": int64(3), "name": "Paradigm"}}, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationInvestorInvestments, []int64{3}).Return(emptyGroups, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationInvestorFundraising, []int64{3}).Return(emptyGroups, nil)
	m.expectProjectRelations([]int64{}, nil)
	m.projects.EXPECT().GetRecentCommits(gomock.Any(), []int64{}, domain.RECENT_COMMITS_LIMIT).Return(emptyGroups, nil)
	m.projects.EXPECT().GetActiveTeamMembers(gomock.Any(), []int64{}).Return(emptyGroups, nil)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{"Paradigm"}, nil)
	require.NoError(t, err)
	assert.Empty(t, profiles, "matched investors are excluded from the result")
}

func TestResolveProject_TeamAndFundraisingTwitter(t *testing.T) {
	m := setupTestEngine(t)
	ids := []int64{7}
	aliceURL := "https://kb.example/member/alice"
	fundURL := "https://kb.example/Investors/detail/seed-fund"

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Uniswap", "UNI"}).
		Return([]store.Row{{"project_id": int64(7), "project_name": "Uniswap", "token_name": "UNI"}}, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Uniswap"}).Return(nil, nil)

	fundraising := map[int64][]store.Row{7: {
		{"project_id": int64(7), "name": "Alice", "link": aliceURL},
		{"project_id": int64(7), "name": "Seed Fund", "link": fundURL},
		{"project_id": int64(7), "name": "Unknown", "link": "https://elsewhere.example/x"},
	}}
	m.expectProjectRelations(ids, map[store.Relation]map[int64][]store.Row{
		store.RelationProjectFundraising: fundraising,
	})
	m.projects.EXPECT().GetRecentCommits(gomock.Any(), ids, domain.RECENT_COMMITS_LIMIT).Return(emptyGroups, nil)
	m.snapshots.EXPECT().GetRecentSnapshots(gomock.Any(), []string{"Uniswap"}, domain.SNAPSHOTS_LIMIT).
		Return(map[string][]bson.M{"Uniswap": {{"id": "0xproposal", "space": bson.M{"name": "Uniswap"}}}}, nil)

	// team path: Alice -> person 11 -> https://x.com/a1
	m.projects.EXPECT().GetActiveTeamMembers(gomock.Any(), ids).
		Return(map[int64][]store.Row{7: {
			{"project_id": int64(7), "name": "Alice"},
			{"project_id": int64(7), "name": "Bob"},
		}}, nil)
	m.projects.EXPECT().FindPeopleByNames(gomock.Any(), []string{"Alice", "Bob"}).
		Return([]store.Row{
			{"people_id": int64(11), "name": "Alice"},
			{"people_id": int64(12), "name": "Bob"},
		}, nil)
	m.expectPeopleRelations([]int64{11, 12}, map[int64][]store.Row{
		11: {
			{"people_id": int64(11), "text": "LinkedIn", "link": "https://linkedin.example/alice"},
			{"people_id": int64(11), "text": "X", "link": "https://x.com/a1"},
		},
		12: {{"people_id": int64(12), "text": "x", "link": "https://x.com/bob"}},
	})

	// fundraising path: Alice's member page -> person 21 -> https://x.com/a2,
	// Seed Fund's investor page -> investor 31 -> https://x.com/seedfund?lang=en
	m.projects.EXPECT().FindEntitiesByURLs(gomock.Any(), domain.EntityInvestor, []string{fundURL}).
		Return(map[string]store.Row{fundURL: {"investor_id": int64(31), "url": fundURL}}, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationInvestorSocialLinks, []int64{31}).
		Return(map[int64][]store.Row{31: {{"investor_id": int64(31), "text": "X", "link": "https://x.com/seedfund?lang=en"}}}, nil)
	m.projects.EXPECT().FindEntitiesByURLs(gomock.Any(), domain.EntityPerson, []string{aliceURL}).
		Return(map[string]store.Row{aliceURL: {"people_id": int64(21), "url": aliceURL}}, nil)
	m.projects.EXPECT().GetRelation(gomock.Any(), store.RelationPersonSocialLinks, []int64{21}).
		Return(map[int64][]store.Row{21: {{"people_id": int64(21), "text": "X", "link": "https://x.com/a2"}}}, nil)

	// fundraising wins over team for Alice, so only a2 and seedfund are polled
	tweetA2 := store.Row{"twitter_username": "a2", "text": "shipping v4"}
	m.projects.EXPECT().GetRecentTweets(gomock.Any(), []string{"a2", "seedfund"},
		domain.RECENT_TWEETS_WINDOW, domain.TWEETS_PER_USER_LIMIT).
		Return(map[string][]store.Row{"a2": {tweetA2}}, nil)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{"Uniswap"}, []string{"UNI"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Len(t, p.Fundraising, 3)
	assert.Len(t, p.ActiveTeamMembers, 2)
	assert.Len(t, p.Snapshots, 1)
	require.Contains(t, p.TeamMembersDetails, "Alice")
	require.Contains(t, p.TeamMembersDetails, "Bob")
	assert.Len(t, p.TeamMembersDetails["Alice"].SocialLinks, 2)
	assert.Equal(t, map[string][]store.Row{"Alice": {tweetA2}}, p.RecentActivity)
}

func TestResolveProject_DuplicatePersonNameFirstWins(t *testing.T) {
	m := setupTestEngine(t)
	ids := []int64{7}

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Uniswap"}).
		Return([]store.Row{{"project_id": int64(7), "project_name": "Uniswap"}}, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Uniswap"}).Return(nil, nil)
	m.expectProjectRelations(ids, nil)
	m.projects.EXPECT().GetRecentCommits(gomock.Any(), ids, domain.RECENT_COMMITS_LIMIT).Return(emptyGroups, nil)
	m.snapshots.EXPECT().GetRecentSnapshots(gomock.Any(), []string{"Uniswap"}, domain.SNAPSHOTS_LIMIT).
		Return(map[string][]bson.M{}, nil)
	m.projects.EXPECT().GetActiveTeamMembers(gomock.Any(), ids).
		Return(map[int64][]store.Row{7: {{"project_id": int64(7), "name": "Sam"}}}, nil)
	m.projects.EXPECT().FindPeopleByNames(gomock.Any(), []string{"Sam"}).
		Return([]store.Row{
			{"people_id": int64(1), "name": "Sam"},
			{"people_id": int64(2), "name": "Sam"},
		}, nil)
	m.expectPeopleRelations([]int64{1}, nil)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{"Uniswap"}, nil)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	id, _ := profiles[0].TeamMembersDetails["Sam"].BasicInfo.Int64("people_id")
	assert.Equal(t, int64(1), id)
}

func TestResolveProject_PersonNamesMatchExactly(t *testing.T) {
	m := setupTestEngine(t)
	ids := []int64{7}

	m.projects.EXPECT().FindProjectsByNameOrToken(gomock.Any(), []string{"Uniswap"}).
		Return([]store.Row{{"project_id": int64(7), "project_name": "Uniswap"}}, nil)
	m.projects.EXPECT().FindInvestorList(gomock.Any(), []string{"Uniswap"}).Return(nil, nil)
	m.expectProjectRelations(ids, nil)
	m.projects.EXPECT().GetRecentCommits(gomock.Any(), ids, domain.RECENT_COMMITS_LIMIT).Return(emptyGroups, nil)
	m.snapshots.EXPECT().GetRecentSnapshots(gomock.Any(), []string{"Uniswap"}, domain.SNAPSHOTS_LIMIT).
		Return(map[string][]bson.M{}, nil)
	m.projects.EXPECT().GetActiveTeamMembers(gomock.Any(), ids).
		Return(map[int64][]store.Row{7: {
			{"project_id": int64(7), "name": " Alice"},
			{"project_id": int64(7), "name": "Alice"},
			{"project_id": int64(7), "name": "  "},
		}}, nil)
	m.projects.EXPECT().FindPeopleByNames(gomock.Any(), []string{" Alice", "Alice"}).
		Return([]store.Row{{"people_id": int64(1), "name": "Alice"}}, nil)
	m.expectPeopleRelations([]int64{1}, nil)

	profiles, err := m.engine.ResolveProject(context.Background(), []string{"Uniswap"}, nil)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	assert.Len(t, profiles[0].TeamMembersDetails, 1)
	assert.Contains(t, profiles[0].TeamMembersDetails, "Alice")
}

func TestProjectTags_GroupsRowsPerProject(t *testing.T) {
	m := setupTestEngine(t)

	m.projects.EXPECT().GetProjectTags(gomock.Any(), []string{"Alpha", "Beta"}, []string{"ALP"}).
		Return([]store.Row{
			{"project_id": int64(1), "project_name": "Alpha", "token_name": "ALP", "tag": "DeFi"},
			{"project_id": int64(1), "project_name": "Alpha", "token_name": "ALP", "tag": "L2"},
			{"project_id": int64(2), "project_name": "Beta", "token_name": nil, "tag": nil},
		}, nil)

	tags, err := m.engine.ProjectTags(context.Background(), []string{"Alpha", "Beta", "Alpha"}, []string{"ALP"})
	require.NoError(t, err)
	assert.Equal(t, []aggregator.ProjectTags{
		{ProjectName: "Alpha", TokenName: "ALP", Tags: []string{"DeFi", "L2"}},
		{ProjectName: "Beta", Tags: []string{}},
	}, tags)
}

func TestProjectTags_NoInputSkipsStore(t *testing.T) {
	m := setupTestEngine(t)

	tags, err := m.engine.ProjectTags(context.Background(), nil, []string{" "})
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestResolvePeopleByTwitter(t *testing.T) {
	m := setupTestEngine(t)

	m.projects.EXPECT().FindPeopleByTwitterLinks(gomock.Any(), []string{"https://x.com/dan"}).
		Return([]store.Row{{"people_id": int64(5), "name": "Dan", "text": "X", "link": "https://x.com/dan"}}, nil)
	m.expectPeopleRelations([]int64{5}, nil)

	people, err := m.engine.ResolvePeopleByTwitter(context.Background(), []string{"dan"})
	require.NoError(t, err)
	require.Contains(t, people, "dan")
	assert.Equal(t, "Dan", people["dan"].BasicInfo.String("name"))
	assert.NotNil(t, people["dan"].Education)
}

func TestProjectsByTwitter(t *testing.T) {
	m := setupTestEngine(t)

	m.projects.EXPECT().FindProjectsByTwitterLinks(gomock.Any(), []string{"https://x.com/beta"}).
		Return([]store.Row{{"project_id": int64(2), "project_name": "Beta", "link": "https://x.com/beta"}}, nil)

	projects, err := m.engine.ProjectsByTwitter(context.Background(), []string{"beta"})
	require.NoError(t, err)
	assert.Equal(t, "Beta", projects["beta"].String("project_name"))
}
