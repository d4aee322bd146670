package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertUser(t, db, "u1", "alice")
	insertProject(t, db, "p1", "u1", "Logged")
	insertProject(t, db, "p2", "u1", "Other")

	repo := NewActivityRepository(db)
	actor := "u1"
	now := time.Now()
	entry1 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActorID:      &actor,
		ActivityType: activity.TypeShareGranted,
		Summary:      "shared with bob (read)",
		CreatedAt:    now,
	}
	entry2 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActorID:      &actor,
		ActivityType: activity.TypeTokenIssued,
		Summary:      "issued share link",
		CreatedAt:    now.Add(time.Second),
	}
	entry3 := &activity.ActivityEntry{
		ProjectID:    "p2",
		ActivityType: activity.TypeTokenRevoked,
		Summary:      "revoked share link",
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NoError(t, repo.Log(ctx, entry3))
	require.NotZero(t, entry1.ID)
	require.False(t, entry3.CreatedAt.IsZero())

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeTokenIssued, entries[0].ActivityType)
	require.NotNil(t, entries[0].ActorID)

	typ := activity.TypeShareGranted
	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1", ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeShareGranted, entries[0].ActivityType)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "p2"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Nil(t, entries[0].ActorID)
}
