package linear

import (
	"context"
	"fmt"
)

// API node shapes, trimmed to the fields the aggregation pass consumes.

type apiPageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type apiState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // backlog|unstarted|started|completed|canceled
}

type apiUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiLabel struct {
	Name   string `json:"name"`
	Parent *struct {
		Name string `json:"name"`
	} `json:"parent"`
}

type apiTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

type apiProjectRef struct {
	ID string `json:"id"`
}

type apiInitiative struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiIssue struct {
	ID          string   `json:"id"`
	Identifier  string   `json:"identifier"`
	Title       string   `json:"title"`
	Priority    int      `json:"priority"`
	Estimate    *float64 `json:"estimate"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	CompletedAt string   `json:"completedAt"`

	Team     *apiTeam       `json:"team"`
	State    *apiState      `json:"state"`
	Assignee *apiUser       `json:"assignee"`
	Project  *apiProjectRef `json:"project"`

	Labels struct {
		Nodes []apiLabel `json:"nodes"`
	} `json:"labels"`

	// Only the newest comment matters for the hygiene gap check.
	Comments struct {
		Nodes []struct {
			CreatedAt string `json:"createdAt"`
		} `json:"nodes"`
	} `json:"comments"`
}

type apiProject struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	State            string   `json:"state"`
	Health           string   `json:"health"`
	TargetDate       string   `json:"targetDate"`
	EstimatedEndDate string   `json:"estimatedEndDate"`
	UpdatedAt        string   `json:"updatedAt"`
	Lead             *apiUser `json:"lead"`

	Initiatives struct {
		Nodes []apiInitiative `json:"nodes"`
	} `json:"initiatives"`
	Teams struct {
		Nodes []apiTeam `json:"nodes"`
	} `json:"teams"`
	Members struct {
		Nodes []apiUser `json:"nodes"`
	} `json:"members"`
}

const issuesQuery = `
query Issues($first: Int!, $after: String, $filter: IssueFilter) {
  issues(first: $first, after: $after, filter: $filter) {
    nodes {
      id identifier title priority estimate createdAt updatedAt completedAt
      team { id name key }
      state { id name type }
      assignee { id name }
      project { id }
      labels { nodes { name parent { name } } }
      comments(last: 1) { nodes { createdAt } }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const projectsQuery = `
query Projects($first: Int!, $after: String) {
  projects(first: $first, after: $after) {
    nodes {
      id name state health targetDate estimatedEndDate updatedAt
      lead { id name }
      initiatives { nodes { id name } }
      teams { nodes { id name key } }
      members { nodes { id name } }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// FetchIssues pages through every issue, optionally restricted to the
// given team keys.
func (c *Client) FetchIssues(ctx context.Context, teamKeys []string) ([]apiIssue, error) {
	var filter map[string]any
	if len(teamKeys) > 0 {
		filter = map[string]any{
			"team": map[string]any{"key": map[string]any{"in": teamKeys}},
		}
	}

	var all []apiIssue
	var cursor string
	for {
		vars := map[string]any{"first": c.pageSize}
		if cursor != "" {
			vars["after"] = cursor
		}
		if filter != nil {
			vars["filter"] = filter
		}

		var resp struct {
			Issues struct {
				Nodes    []apiIssue  `json:"nodes"`
				PageInfo apiPageInfo `json:"pageInfo"`
			} `json:"issues"`
		}
		if err := c.execute(ctx, &graphQLRequest{Query: issuesQuery, Variables: vars}, &resp); err != nil {
			return nil, fmt.Errorf("fetching issues: %w", err)
		}

		all = append(all, resp.Issues.Nodes...)
		if !resp.Issues.PageInfo.HasNextPage {
			return all, nil
		}
		cursor = resp.Issues.PageInfo.EndCursor
	}
}

// FetchProjects pages through every project.
func (c *Client) FetchProjects(ctx context.Context) ([]apiProject, error) {
	var all []apiProject
	var cursor string
	for {
		vars := map[string]any{"first": c.pageSize}
		if cursor != "" {
			vars["after"] = cursor
		}

		var resp struct {
			Projects struct {
				Nodes    []apiProject `json:"nodes"`
				PageInfo apiPageInfo  `json:"pageInfo"`
			} `json:"projects"`
		}
		if err := c.execute(ctx, &graphQLRequest{Query: projectsQuery, Variables: vars}, &resp); err != nil {
			return nil, fmt.Errorf("fetching projects: %w", err)
		}

		all = append(all, resp.Projects.Nodes...)
		if !resp.Projects.PageInfo.HasNextPage {
			return all, nil
		}
		cursor = resp.Projects.PageInfo.EndCursor
	}
}
