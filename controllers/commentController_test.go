package controllers

import (
	"testing"
	"time"

	"civicpulse-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func commentFixture(id primitive.ObjectID, parentID *primitive.ObjectID, body string, createdAt time.Time) threadedComment {
	return threadedComment{
		Comment: models.Comment{
			ID:        id,
			IssueID:   primitive.NilObjectID,
			AuthorID:  primitive.NewObjectID(),
			Body:      body,
			ParentID:  parentID,
			CreatedAt: createdAt,
		},
	}
}

func TestAssembleThreadsFlattensNestedReplies(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	aID := primitive.NewObjectID()
	bID := primitive.NewObjectID()
	cID := primitive.NewObjectID()

	// A is top-level, B replies to A, C replies to B. C must land in A's
	// flat reply list, not nest under B.
	input := []threadedComment{
		commentFixture(aID, nil, "A", base),
		commentFixture(bID, &aID, "B", base.Add(time.Minute)),
		commentFixture(cID, &bID, "C", base.Add(2*time.Minute)),
	}

	threads := assembleThreads(input)
	require.Len(t, threads, 1)
	assert.Equal(t, aID, threads[0].ID)

	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, bID, threads[0].Replies[0].ID)
	assert.Equal(t, cID, threads[0].Replies[1].ID)
	assert.Empty(t, threads[0].Replies[0].Replies)
}

func TestAssembleThreadsMultipleTopLevel(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	firstID := primitive.NewObjectID()
	secondID := primitive.NewObjectID()
	replyID := primitive.NewObjectID()

	input := []threadedComment{
		commentFixture(firstID, nil, "first", base),
		commentFixture(secondID, nil, "second", base.Add(time.Minute)),
		commentFixture(replyID, &secondID, "reply", base.Add(2*time.Minute)),
	}

	threads := assembleThreads(input)
	require.Len(t, threads, 2)
	assert.Equal(t, firstID, threads[0].ID)
	assert.Empty(t, threads[0].Replies)
	assert.Equal(t, secondID, threads[1].ID)
	require.Len(t, threads[1].Replies, 1)
	assert.Equal(t, replyID, threads[1].Replies[0].ID)
}

func TestAssembleThreadsOrphanReplyDropped(t *testing.T) {
	missing := primitive.NewObjectID()
	input := []threadedComment{
		commentFixture(primitive.NewObjectID(), &missing, "orphan", time.Now()),
	}

	assert.Empty(t, assembleThreads(input))
}

func TestAssembleThreadsEmpty(t *testing.T) {
	assert.Empty(t, assembleThreads(nil))
	assert.Empty(t, assembleThreads([]threadedComment{}))
}
