package aggregator

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/feral-file/ff-project-intel/internal/store"
)

// PersonProfile is a person with every related record
type PersonProfile struct {
	BasicInfo      store.Row   `json:"basic_info"`
	Education      []store.Row `json:"education"`
	SocialLinks    []store.Row `json:"social_links"`
	WorkExperience []store.Row `json:"work_experience"`
	Investments    []store.Row `json:"investments"`
}

// ProjectProfile is a project with every related record. Absent relations are empty, never nil.
type ProjectProfile struct {
	BasicInfo         store.Row   `json:"basic_info"`
	Ecosystems        []store.Row `json:"ecosystems"`
	Fundraising       []store.Row `json:"fundraising"`
	FundraisingRounds []store.Row `json:"fundraising_rounds"`
	Investments       []store.Row `json:"investments"`
	SocialLinks       []store.Row `json:"social_links"`
	SubsidiaryOrgs    []store.Row `json:"subsidiary_orgs"`
	Tags              []store.Row `json:"tags"`
	TeamMembers       []store.Row `json:"team_members"`
	ActiveTeamMembers []store.Row `json:"active_team_members"`
	GithubCommits     []store.Row `json:"github_commit_msg"`
	// TeamMembersDetails is keyed by active member name
	TeamMembersDetails map[string]PersonProfile `json:"team_members_details"`
	TokenContracts     []store.Row              `json:"token_contracts"`
	TokenUnlockEvents  []store.Row              `json:"token_unlock_events"`
	Snapshots          []bson.M                 `json:"snapshots"`
	// RecentActivity maps a display name to that account's recent tweets
	RecentActivity map[string][]store.Row `json:"recent_activity"`
}

// ProjectTags is a project with the text of its tags
type ProjectTags struct {
	ProjectName string   `json:"project_name"`
	TokenName   string   `json:"token_name,omitempty"`
	Tags        []string `json:"tags"`
}

func emptyPersonProfile(basic store.Row) PersonProfile {
	return PersonProfile{
		BasicInfo:      basic,
		Education:      []store.Row{},
		SocialLinks:    []store.Row{},
		WorkExperience: []store.Row{},
		Investments:    []store.Row{},
	}
}

func rowsOrEmpty(rows []store.Row) []store.Row {
	if rows == nil {
		return []store.Row{}
	}
	return rows
}
