package notify

import (
	"context"
	"log/slog"

	"github.com/repairtrack-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

type repairStore interface {
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Repair, error)
}

type userStore interface {
	ListByMobile(ctx context.Context, mobile string) ([]domain.User, error)
}

// Resolver turns a selection criterion (business or mobile) into the
// deduplicated set of target push tokens.
type Resolver struct {
	repairs     repairStore
	users       userStore
	concurrency int
}

func NewResolver(repairs repairStore, users userStore, concurrency int) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{repairs: repairs, users: users, concurrency: concurrency}
}

// ResolveByBusiness gathers the tokens of every customer with at least one
// repair under the business. Per-mobile lookups run concurrently under the
// configured cap; a failed lookup degrades that mobile's contribution to
// empty and never aborts the rest.
func (r *Resolver) ResolveByBusiness(ctx context.Context, businessID string) ([]string, error) {
	repairs, err := r.repairs.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var mobiles []string
	for _, rec := range repairs {
		if rec.CustomerMobile == "" {
			continue
		}
		if _, ok := seen[rec.CustomerMobile]; ok {
			continue
		}
		seen[rec.CustomerMobile] = struct{}{}
		mobiles = append(mobiles, rec.CustomerMobile)
	}

	// Each goroutine writes only its own slot, so no locking is needed.
	perMobile := make([][]string, len(mobiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, mobile := range mobiles {
		g.Go(func() error {
			users, err := r.users.ListByMobile(gctx, mobile)
			if err != nil {
				slog.Warn("token lookup failed, skipping mobile", "mobile", mobile, "err", err)
				return nil
			}
			perMobile[i] = collectTokens(users, domain.RoleUser)
			return nil
		})
	}
	_ = g.Wait()

	var all []string
	for _, tokens := range perMobile {
		all = append(all, tokens...)
	}
	return dedupe(all), nil
}

// ResolveByMobile gathers the tokens of every user record matching the
// mobile exactly, regardless of role.
func (r *Resolver) ResolveByMobile(ctx context.Context, mobile string) ([]string, error) {
	users, err := r.users.ListByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	return dedupe(collectTokens(users, "")), nil
}

// collectTokens unions the tokens of the given records, optionally keeping
// only records with the given role.
func collectTokens(users []domain.User, role string) []string {
	var tokens []string
	for _, u := range users {
		if role != "" && u.Role != role {
			continue
		}
		tokens = append(tokens, tokensOf(u)...)
	}
	return tokens
}

// tokensOf returns one record's push destinations. The fcm_tokens list wins
// when non-empty; otherwise the legacy single fcm_token field is used.
func tokensOf(u domain.User) []string {
	if len(u.FCMTokens) > 0 {
		var tokens []string
		for _, t := range u.FCMTokens {
			if t != "" {
				tokens = append(tokens, t)
			}
		}
		return tokens
	}
	if u.FCMToken != "" {
		return []string{u.FCMToken}
	}
	return nil
}

// dedupe removes repeated token strings, preserving first-seen order, so one
// invocation never sends to the same token twice.
func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
