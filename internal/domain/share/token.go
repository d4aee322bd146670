package share

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/rpggio/waypoint/internal/repository"
)

// tokenBytes is the entropy of a share token: 256 bits.
const tokenBytes = 32

// GenerateToken returns a random hex-encoded share token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// WellFormed reports whether s has the shape of a generated share token.
func WellFormed(s string) bool {
	if len(s) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// IssueOrGetToken returns the project's share token, creating it on first use.
// Concurrent first calls converge on a single token: the loser of the insert
// race reads back the winner's row.
func (r *Registry) IssueOrGetToken(ctx context.Context, projectID, ownerID string) (*Token, error) {
	existing, err := r.tokens.GetByProject(ctx, projectID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, repository.WrapStore("get token", err)
	}

	value, err := r.newToken()
	if err != nil {
		return nil, err
	}
	now := r.now()
	tok := &Token{
		ID:              uuid.NewString(),
		ProjectID:       projectID,
		Token:           value,
		CreatedByUserID: ownerID,
		CreatedAt:       now,
	}
	if r.tokenTTL > 0 {
		expires := now.Add(r.tokenTTL)
		tok.ExpiresAt = &expires
	}

	if err := r.tokens.Create(ctx, tok); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			winner, err := r.tokens.GetByProject(ctx, projectID)
			if err != nil {
				return nil, repository.WrapStore("get token after conflict", err)
			}
			r.logger.Debug("share token created concurrently", "project_id", projectID)
			return winner, nil
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, ErrProjectNotFound
		default:
			return nil, repository.WrapStore("create token", err)
		}
	}

	r.record(ctx, projectID, ownerID, activity.TypeTokenIssued, "issued share link")
	return tok, nil
}

// GetToken returns the project's share token.
func (r *Registry) GetToken(ctx context.Context, projectID string) (*Token, error) {
	tok, err := r.tokens.GetByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, repository.WrapStore("get token", err)
	}
	return tok, nil
}

// RevokeToken deletes the project's share token.
func (r *Registry) RevokeToken(ctx context.Context, projectID, actorID string) error {
	if err := r.tokens.DeleteByProject(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return repository.WrapStore("delete token", err)
	}
	r.record(ctx, projectID, actorID, activity.TypeTokenRevoked, "revoked share link")
	return nil
}

// TokenReader reads share tokens by value.
type TokenReader interface {
	GetByToken(ctx context.Context, token string) (*Token, error)
}

// LookupToken returns the live token with the given value. Malformed, unknown
// and expired tokens yield an *InvalidTokenError; a malformed value is never
// queried. Store failures are returned as *repository.StoreError.
func LookupToken(ctx context.Context, tokens TokenReader, value string, now time.Time) (*Token, error) {
	if !WellFormed(value) {
		return nil, &InvalidTokenError{Reason: "malformed"}
	}
	tok, err := tokens.GetByToken(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &InvalidTokenError{Reason: "unknown"}
		}
		return nil, repository.WrapStore("get token", err)
	}
	if tok.Expired(now) {
		return nil, &InvalidTokenError{Reason: "expired"}
	}
	return tok, nil
}

// ResolveToken validates an anonymous share token and loads the project it
// points to. Every rejection yields the bare ErrTokenInvalid; the reason is
// only logged.
func (r *Registry) ResolveToken(ctx context.Context, value string) (*project.Snapshot, error) {
	tok, err := LookupToken(ctx, r.tokens, value, r.now())
	if err != nil {
		var invalid *InvalidTokenError
		if errors.As(err, &invalid) {
			r.logger.Info("share token rejected", "reason", invalid.Reason)
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	snap, err := r.snapshots.Snapshot(ctx, tok.ProjectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			r.logger.Info("share token rejected", "reason", "project missing", "project_id", tok.ProjectID)
			return nil, ErrTokenInvalid
		}
		return nil, repository.WrapStore("load snapshot", err)
	}
	return snap, nil
}
