package aggregator

import (
	"context"
	"slices"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// fundraisingKinds is the merge order of the fundraising path; later kinds win on name collision
var fundraisingKinds = []domain.EntityKind{
	domain.EntityInvestor,
	domain.EntityPerson,
	domain.EntityProject,
}

// twitterLink returns the last "X" link among social links
func twitterLink(links []store.Row) (string, bool) {
	var found string
	for _, link := range links {
		if link.String("text") == domain.TWITTER_PLATFORM_LABEL && link.String("link") != "" {
			found = link.String("link")
		}
	}
	return found, found != ""
}

// teamTwitterLinks maps active member names to their X links through the resolved people
func teamTwitterLinks(members []store.Row, people map[string]PersonProfile) map[string]string {
	links := make(map[string]string)
	for _, member := range members {
		name := member.String("name")
		person, ok := people[name]
		if !ok {
			continue
		}
		if link, ok := twitterLink(person.SocialLinks); ok {
			links[name] = link
		}
	}
	return links
}

// fundraisingTwitterLinks resolves fundraising participant links to X links per project.
// Each participant URL is matched exactly against the master table its path shape names.
func (e *Engine) fundraisingTwitterLinks(ctx context.Context, fundraising map[int64][]store.Row) (map[int64]map[string]string, error) {
	urls := make(map[domain.EntityKind][]string)
	seen := make(map[string]struct{})
	for _, rows := range fundraising {
		for _, row := range rows {
			link := row.String("link")
			kind, ok := domain.ClassifyEntityURL(link)
			if !ok {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			urls[kind] = append(urls[kind], link)
		}
	}

	// twitterByURL[kind][participant url] = X link
	twitterByURL := make(map[domain.EntityKind]map[string]string, len(fundraisingKinds))
	for _, kind := range fundraisingKinds {
		slices.Sort(urls[kind])
		resolved, err := e.entityTwitterLinks(ctx, kind, urls[kind])
		if err != nil {
			return nil, err
		}
		twitterByURL[kind] = resolved
	}

	result := make(map[int64]map[string]string, len(fundraising))
	for projectID, rows := range fundraising {
		perKind := make([]map[string]string, 0, len(fundraisingKinds))
		for _, kind := range fundraisingKinds {
			links := make(map[string]string)
			for _, row := range rows {
				link := row.String("link")
				if k, ok := domain.ClassifyEntityURL(link); !ok || k != kind {
					continue
				}
				if x, ok := twitterByURL[kind][link]; ok {
					links[row.String("name")] = x
				}
			}
			perKind = append(perKind, links)
		}
		result[projectID] = domain.MergeTwitterLinks(perKind...)
	}

	return result, nil
}

// entityTwitterLinks maps entity URLs of one kind to the entity's X link
func (e *Engine) entityTwitterLinks(ctx context.Context, kind domain.EntityKind, urls []string) (map[string]string, error) {
	if len(urls) == 0 {
		return map[string]string{}, nil
	}

	entities, err := e.projects.FindEntitiesByURLs(ctx, kind, urls)
	if err != nil {
		return nil, err
	}

	keyColumn := store.EntityKeyColumn(kind)
	var ids []int64
	urlByID := make(map[int64][]string)
	for _, url := range urls {
		entity, ok := entities[url]
		if !ok {
			continue
		}
		id, ok := entity.Int64(keyColumn)
		if !ok {
			continue
		}
		if _, dup := urlByID[id]; !dup {
			ids = append(ids, id)
		}
		urlByID[id] = append(urlByID[id], url)
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	socials, err := e.projects.GetRelation(ctx, store.EntitySocialLinks(kind), ids)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]string)
	for _, id := range ids {
		link, ok := twitterLink(socials[id])
		if !ok {
			continue
		}
		for _, url := range urlByID[id] {
			resolved[url] = link
		}
	}

	return resolved, nil
}

// recentActivity fetches recent tweets for every handle in one query and remaps them
// from username back to the display name each project knows the account by
func (e *Engine) recentActivity(ctx context.Context, handles map[int64]map[string]string) (map[int64]map[string][]store.Row, error) {
	var usernames []string
	for _, links := range handles {
		for _, link := range links {
			if username := domain.ExtractTwitterUsername(link); username != "" {
				usernames = append(usernames, username)
			}
		}
	}
	usernames = uniqueNonEmpty(usernames)
	slices.Sort(usernames)
	if len(usernames) == 0 {
		return map[int64]map[string][]store.Row{}, nil
	}

	tweets, err := e.projects.GetRecentTweets(ctx, usernames, domain.RECENT_TWEETS_WINDOW, domain.TWEETS_PER_USER_LIMIT)
	if err != nil {
		return nil, err
	}

	activity := make(map[int64]map[string][]store.Row, len(handles))
	for projectID, links := range handles {
		byName := make(map[string][]store.Row)
		for name, link := range links {
			if recent, ok := tweets[domain.ExtractTwitterUsername(link)]; ok {
				byName[name] = recent
			}
		}
		activity[projectID] = byName
	}

	return activity, nil
}
