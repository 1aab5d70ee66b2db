package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/usersvc/internal/logging"
)

const (
	seedSampleSize       = 5
	seedMaxEmailAttempts = 10
	seedEmailNumbers     = 10000
)

var seedFirstNames = []string{
	"John", "Jane", "Mike", "Sarah", "David", "Emily", "Chris", "Amanda", "James", "Lisa",
	"Robert", "Jennifer", "Michael", "Mary", "William", "Patricia", "Richard", "Linda",
	"Joseph", "Barbara", "Thomas", "Elizabeth", "Charles", "Susan", "Christopher", "Jessica",
	"Daniel", "Matthew", "Karen", "Anthony", "Nancy", "Mark", "Betty", "Donald",
	"Dorothy", "Steven", "Helen", "Paul", "Sandra", "Andrew", "Ashley", "Joshua", "Donna",
	"Kenneth", "Carol", "Kevin", "Ruth", "Brian", "Sharon", "George", "Michelle", "Edward",
	"Laura", "Ronald", "Timothy", "Kimberly", "Jason", "Deborah", "Jeffrey", "Cynthia",
}

var seedDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com", "icloud.com",
	"protonmail.com", "zoho.com", "mail.com", "inbox.com", "example.com", "test.com",
}

// Seed inserts count synthetic users. A count below 1 uses the configured
// default. Generated emails never repeat each other or any email stored
// when the run starts.
func (s *Service) Seed(ctx context.Context, count int) (*SeedResult, error) {
	if count < 1 {
		count = s.cfg.SeedDefaultCount
	}
	if err := s.checkBatchSize(count); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	defer s.limiter.Release()

	start := time.Now()

	existing, err := s.store.AllEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: load emails: %w", err)
	}
	used := make(map[string]struct{}, len(existing)+count)
	for _, e := range existing {
		used[e] = struct{}{}
	}

	users := generateUsers(s.newRand(), used, count, s.now())

	created, err := s.insertChunked(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	logging.WithFields(ctx, "op", "seed").Info("seed complete",
		"requested", count,
		"inserted", len(created),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	sample := created[:min(seedSampleSize, len(created))]
	return &SeedResult{Count: len(created), Sample: sample}, nil
}

// generateUsers builds count users whose emails are not in used, adding
// each new email to used. An email is drawn up to seedMaxEmailAttempts
// times before falling back to a timestamp-based address.
func generateUsers(r *rand.Rand, used map[string]struct{}, count int, now time.Time) []NewUser {
	users := make([]NewUser, 0, count)
	base := now.UnixMilli()

	for i := 0; i < count; i++ {
		email := ""
		for attempt := 0; attempt < seedMaxEmailAttempts; attempt++ {
			candidate := randomEmail(r)
			if _, taken := used[candidate]; !taken {
				email = candidate
				break
			}
		}

		if email == "" {
			for n := base + int64(i); ; n++ {
				candidate := "user" + strconv.FormatInt(n, 10) + "@example.com"
				if _, taken := used[candidate]; !taken {
					email = candidate
					break
				}
			}
		}

		used[email] = struct{}{}
		users = append(users, NewUser{
			Name:  pick(r, seedFirstNames) + " " + pick(r, seedFirstNames),
			Email: email,
		})
	}

	return users
}

func randomEmail(r *rand.Rand) string {
	name := strings.ToLower(pick(r, seedFirstNames))
	domain := pick(r, seedDomains)
	return name + strconv.Itoa(r.IntN(seedEmailNumbers)) + "@" + domain
}

func pick(r *rand.Rand, from []string) string {
	return from[r.IntN(len(from))]
}
