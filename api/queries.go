// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"context"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/query"
)

// Cache keys of the reads.
var (
	ListUsersKey = query.Key{"listUsers"}
	ListPollsKey = query.Key{"listPolls"}
)

// PollKey addresses the cached read of one poll.
func PollKey(id string) query.Key {
	return query.Key{"getPoll", id}
}

func (c *Client) ListUsersQuery() query.Query[[]models.User] {
	return query.Query[[]models.User]{Key: ListUsersKey, Fetch: c.ListUsers}
}

func (c *Client) ListPollsQuery() query.Query[[]models.Poll] {
	return query.Query[[]models.Poll]{Key: ListPollsKey, Fetch: c.ListPolls}
}

// GetPollQuery reads poll id. The secret is not part of the key: a viewer
// sees one version of a poll regardless of how they reached it.
func (c *Client) GetPollQuery(id, secret string) query.Query[*models.Poll] {
	return query.Query[*models.Poll]{
		Key: PollKey(id),
		Fetch: func(ctx context.Context) (*models.Poll, error) {
			return c.GetPoll(ctx, id, secret)
		},
	}
}

func (c *Client) CreatePollMutation() query.Mutation[models.CreatePollRequest, *models.Poll] {
	return query.Mutation[models.CreatePollRequest, *models.Poll]{
		Key:         query.Key{"createPoll"},
		Run:         c.CreatePoll,
		Invalidates: []query.Key{ListPollsKey},
	}
}

// DeletePollMutation invalidates the poll list. The deleted poll's own
// entry is removed by the caller, since refetching it would fail.
func (c *Client) DeletePollMutation(id string) query.Mutation[struct{}, struct{}] {
	return query.Mutation[struct{}, struct{}]{
		Key: query.Key{"deletePoll", id},
		Run: func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, c.DeletePoll(ctx, id)
		},
		Invalidates: []query.Key{ListPollsKey},
	}
}

func (c *Client) AddPollUsersMutation(id string) query.Mutation[[]models.User, *models.Poll] {
	return query.Mutation[[]models.User, *models.Poll]{
		Key: query.Key{"createPollUsers", id},
		Run: func(ctx context.Context, users []models.User) (*models.Poll, error) {
			return c.AddPollUsers(ctx, id, users)
		},
		Invalidates: []query.Key{PollKey(id), ListPollsKey},
	}
}

func (c *Client) ClosePollMutation(id string) query.Mutation[struct{}, *models.Poll] {
	return query.Mutation[struct{}, *models.Poll]{
		Key: query.Key{"closePoll", id},
		Run: func(ctx context.Context, _ struct{}) (*models.Poll, error) {
			return c.ClosePoll(ctx, id)
		},
		Invalidates: []query.Key{PollKey(id), ListPollsKey},
	}
}

// VoteMutation casts a ballot in poll id, passing secret for link-only
// access.
func (c *Client) VoteMutation(id, secret string) query.Mutation[[]string, struct{}] {
	return query.Mutation[[]string, struct{}]{
		Key: query.Key{"voteInPoll", id},
		Run: func(ctx context.Context, values []string) (struct{}, error) {
			return struct{}{}, c.Vote(ctx, id, models.VoteRequest{Values: values, Secret: secret})
		},
		Invalidates: []query.Key{PollKey(id), ListPollsKey},
	}
}
