package core

// service_bulk.go implements the bulk-create pipeline.
//
// The payload is checked in gates and nothing is written unless every gate
// passes: shape (ParseBulkPayload), per-record validation, then a lookup of
// emails already in the store. Only then are the rows inserted, in chunks of
// InsertBatchSize, skipping rows the store rejects.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/usersvc/internal/logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ParseBulkPayload extracts the records of a bulk request. The body is either
// a JSON array or an object whose "users" field holds the array. When "users"
// is missing or falsy the body itself is taken, so an object without it is
// reported as not being an array.
func (s *Service) ParseBulkPayload(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, ErrInvalidBody
	}

	payload := body
	if body[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, ErrInvalidBody
		}
		if users, ok := wrapper["users"]; ok && truthy(users) {
			payload = bytes.TrimSpace(users)
		}
	}

	if payload[0] != '[' {
		return nil, &InputShapeError{Message: "Users data must be an array"}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, ErrInvalidBody
	}

	if err := s.checkBatchSize(len(records)); err != nil {
		return nil, err
	}
	return records, nil
}

// truthy reports whether a JSON value would count as true in a boolean
// context: anything except null, false, 0 and "".
func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", "-0", `""`:
		return false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f != 0
	}
	return true
}

func (s *Service) checkBatchSize(n int) error {
	if n == 0 {
		return &InputShapeError{Message: "Users array cannot be empty"}
	}
	if n > s.cfg.BulkMax {
		return &InputShapeError{Message: printer.Sprintf("Maximum %d users allowed per request", s.cfg.BulkMax)}
	}
	return nil
}

// BulkCreate validates every record, rejects the batch if any email is
// already stored, and inserts the rest. Count in the result is the number of
// rows written, which is smaller than len(records) when the batch repeats an
// email.
func (s *Service) BulkCreate(ctx context.Context, records []json.RawMessage) (*BulkResult, error) {
	if err := s.checkBatchSize(len(records)); err != nil {
		return nil, err
	}

	users, err := validateBatch(records)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("bulk create: %w", err)
	}
	defer s.limiter.Release()

	start := time.Now()

	if err := s.checkDuplicateEmails(ctx, users); err != nil {
		return nil, err
	}

	created, err := s.insertChunked(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("bulk create: %w", err)
	}

	logging.WithFields(ctx, "op", "bulk_create").Info("bulk create complete",
		"requested", len(records),
		"inserted", len(created),
		"skipped", len(records)-len(created),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &BulkResult{Count: len(created), Users: created}, nil
}

// validateBatch decodes and validates every record, collecting one error per
// failing record.
func validateBatch(records []json.RawMessage) ([]NewUser, error) {
	users := make([]NewUser, 0, len(records))
	var failures []IndexedError

	for i, raw := range records {
		in, err := DecodeUserInput(raw)
		if err == nil {
			err = ValidateUser(in)
		}
		if err != nil {
			failures = append(failures, IndexedError{Index: i, Error: validationMessage(err)})
			continue
		}
		users = append(users, in.toNewUser())
	}

	if len(failures) > 0 {
		return nil, &BatchValidationError{Errors: failures}
	}
	return users, nil
}

func validationMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// checkDuplicateEmails reports every batch email, in batch order, that is
// already held by a stored user.
func (s *Service) checkDuplicateEmails(ctx context.Context, users []NewUser) error {
	emails := make([]string, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, ok := seen[u.Email]; ok {
			continue
		}
		seen[u.Email] = struct{}{}
		emails = append(emails, u.Email)
	}

	existing, err := s.store.ExistingEmails(ctx, emails)
	if err != nil {
		return fmt.Errorf("check existing emails: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	stored := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		stored[e] = struct{}{}
	}

	var dups []string
	for _, u := range users {
		if _, ok := stored[u.Email]; ok {
			dups = append(dups, u.Email)
		}
	}
	return &DuplicateEmailsError{Emails: dups}
}

// insertChunked writes users in chunks of InsertBatchSize. A chunk that fails
// outright aborts the remaining chunks; rows already written stay.
func (s *Service) insertChunked(ctx context.Context, users []NewUser) ([]User, error) {
	created := make([]User, 0, len(users))
	size := s.cfg.InsertBatchSize

	for start := 0; start < len(users); start += size {
		end := min(start+size, len(users))

		rows, err := s.store.InsertMany(ctx, users[start:end])
		if err != nil {
			return created, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		created = append(created, rows...)
	}

	return created, nil
}
