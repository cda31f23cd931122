package commentstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/bizdesk-backend/internal/client"
	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Fake remote
// ---------------------------------------------------------------------------

type fakeRemote struct {
	listFn     func(ctx context.Context, ref domain.EntityRef) ([]*domain.Comment, error)
	createFn   func(ctx context.Context, in client.NewComment) (*domain.Comment, error)
	reactionFn func(ctx context.Context, id uuid.UUID, kind domain.ReactionKind) error

	creates   atomic.Int32
	reactions atomic.Int32
}

func (f *fakeRemote) ListComments(ctx context.Context, ref domain.EntityRef) ([]*domain.Comment, error) {
	return f.listFn(ctx, ref)
}

func (f *fakeRemote) CreateComment(ctx context.Context, in client.NewComment) (*domain.Comment, error) {
	f.creates.Add(1)
	return f.createFn(ctx, in)
}

func (f *fakeRemote) AddReaction(ctx context.Context, id uuid.UUID, kind domain.ReactionKind) error {
	f.reactions.Add(1)
	return f.reactionFn(ctx, id, kind)
}

var (
	entity    = domain.EntityRef{Type: "expense", ID: "42"}
	errRemote = errors.New("network down")
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func comment(content string, replies ...*domain.Comment) *domain.Comment {
	c := &domain.Comment{
		ID:         uuid.New(),
		Entity:     entity,
		AuthorName: "Ann",
		Content:    content,
		Reactions:  domain.ReactionCounts{},
		Replies:    replies,
	}
	for _, r := range replies {
		r.ParentID = &c.ID
	}
	return c
}

func serverCreate(_ context.Context, in client.NewComment) (*domain.Comment, error) {
	return &domain.Comment{
		ID:         uuid.New(),
		ParentID:   in.ParentID,
		Entity:     in.Entity,
		AuthorName: in.AuthorName,
		Content:    in.Content,
		CreatedAt:  time.Now(),
	}, nil
}

// loadedStore returns a store holding tree for entity.
func loadedStore(t *testing.T, remote *fakeRemote, tree ...*domain.Comment) *Store {
	t.Helper()
	if remote.listFn == nil {
		remote.listFn = func(context.Context, domain.EntityRef) ([]*domain.Comment, error) { return tree, nil }
	}
	s := New(discardLogger(), remote)
	_, err := s.Load(context.Background(), entity)
	require.NoError(t, err)
	return s
}

func ids(tree []*domain.Comment) []uuid.UUID {
	out := make([]uuid.UUID, len(tree))
	for i, c := range tree {
		out[i] = c.ID
	}
	return out
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_ReplacesTreeWholesale(t *testing.T) {
	t.Parallel()

	first := []*domain.Comment{comment("a", comment("a.1")), comment("b")}
	second := []*domain.Comment{comment("c")}
	calls := 0
	remote := &fakeRemote{listFn: func(context.Context, domain.EntityRef) ([]*domain.Comment, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return second, nil
	}}
	s := New(discardLogger(), remote)

	tree, err := s.Load(context.Background(), entity)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(tree))
	assert.Equal(t, 3, s.Len())

	tree, err = s.Load(context.Background(), entity)
	require.NoError(t, err)
	assert.Equal(t, ids(second), ids(tree))
	assert.Equal(t, 1, s.Len())
	_, found := s.Find(first[0].ID)
	assert.False(t, found, "first load must not survive the second")
}

func TestLoad_FailureEmptiesTreeAndReportsError(t *testing.T) {
	t.Parallel()

	fail := false
	remote := &fakeRemote{listFn: func(context.Context, domain.EntityRef) ([]*domain.Comment, error) {
		if fail {
			return nil, errRemote
		}
		return []*domain.Comment{comment("a")}, nil
	}}
	s := loadedStore(t, remote)
	require.Equal(t, 1, s.Len())

	fail = true
	tree, err := s.Load(context.Background(), entity)
	require.ErrorIs(t, err, errRemote)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
	assert.Zero(t, s.Len())
}

func TestLoad_RejectsMissingEntity(t *testing.T) {
	t.Parallel()

	s := New(discardLogger(), &fakeRemote{})
	_, err := s.Load(context.Background(), domain.EntityRef{Type: "expense"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoad_OverlappingLoadsKeepLatest(t *testing.T) {
	t.Parallel()

	slow := []*domain.Comment{comment("slow")}
	fast := []*domain.Comment{comment("fast")}
	release := make(chan struct{})
	started := make(chan struct{})

	remote := &fakeRemote{listFn: func(_ context.Context, ref domain.EntityRef) ([]*domain.Comment, error) {
		if ref.ID == "slow" {
			close(started)
			<-release
			return slow, nil
		}
		return fast, nil
	}}
	s := New(discardLogger(), remote)

	slowDone := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), domain.EntityRef{Type: "expense", ID: "slow"})
		slowDone <- err
	}()
	<-started

	tree, err := s.Load(context.Background(), domain.EntityRef{Type: "expense", ID: "fast"})
	require.NoError(t, err)
	assert.Equal(t, ids(fast), ids(tree))

	close(release)
	assert.ErrorIs(t, <-slowDone, ErrSuperseded)
	assert.Equal(t, ids(fast), ids(s.Tree()))
	assert.Equal(t, "fast", s.Entity().ID)
}

func TestTree_IsIndependentCopy(t *testing.T) {
	t.Parallel()

	root := comment("root", comment("reply", comment("nested")))
	s := loadedStore(t, &fakeRemote{}, root)

	snap := s.Tree()
	require.Len(t, snap, 1)
	require.Len(t, snap[0].Replies, 1)
	require.Len(t, snap[0].Replies[0].Replies, 1)
	assert.Equal(t, snap[0].ID, *snap[0].Replies[0].ParentID)

	snap[0].Content = "changed"
	snap[0].Replies = nil
	snap[0].Reactions[domain.ReactionLike] = 9

	again := s.Tree()
	assert.Equal(t, "root", again[0].Content)
	assert.Len(t, again[0].Replies, 1)
	assert.Zero(t, again[0].Reactions[domain.ReactionLike])
}

// ---------------------------------------------------------------------------
// AddComment / AddReply
// ---------------------------------------------------------------------------

func TestAddComment_AppendsOneRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		createFn   func(context.Context, client.NewComment) (*domain.Comment, error)
		wantStatus domain.SyncStatus
		wantAuthor string
	}{
		{"server accepts", serverCreate, domain.SyncStatusSynced, "Ann"},
		{"server fails", func(context.Context, client.NewComment) (*domain.Comment, error) {
			return nil, errRemote
		}, domain.SyncStatusLocalOnly, LocalAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			existing := comment("existing")
			s := loadedStore(t, &fakeRemote{createFn: tt.createFn}, existing)

			got, err := s.AddComment(context.Background(), Submission{Content: "hello", AuthorName: "Ann"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.SyncStatus)
			assert.Equal(t, tt.wantAuthor, got.AuthorName)
			assert.Equal(t, "hello", got.Content)
			assert.Nil(t, got.ParentID)
			assert.NotNil(t, got.Reactions)

			tree := s.Tree()
			assert.Equal(t, []uuid.UUID{existing.ID, got.ID}, ids(tree))
			assert.Equal(t, 2, s.Len())
		})
	}
}

func TestAddComment_LocalEchoIsListedAsUnsynced(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	remote := &fakeRemote{
		listFn: func(context.Context, domain.EntityRef) ([]*domain.Comment, error) { return nil, nil },
		createFn: func(context.Context, client.NewComment) (*domain.Comment, error) {
			return nil, errRemote
		},
	}
	s := New(discardLogger(), remote, WithClock(clock))
	_, err := s.Load(context.Background(), entity)
	require.NoError(t, err)

	echo, err := s.AddComment(context.Background(), Submission{Content: "  keep my words ", AuthorName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "keep my words", echo.Content)
	assert.Equal(t, clock.Now(), echo.CreatedAt)
	assert.Equal(t, entity, echo.Entity)

	unsynced := s.Unsynced()
	require.Len(t, unsynced, 1)
	assert.Equal(t, echo.ID, unsynced[0].ID)
}

func TestAddComment_ContentTrimmedWhetherSyncedOrNot(t *testing.T) {
	t.Parallel()

	for _, fail := range []bool{false, true} {
		var sent string
		remote := &fakeRemote{createFn: func(ctx context.Context, in client.NewComment) (*domain.Comment, error) {
			sent = in.Content
			if fail {
				return nil, errRemote
			}
			return serverCreate(ctx, in)
		}}
		s := loadedStore(t, remote)

		got, err := s.AddComment(context.Background(), Submission{Content: "\n  ship it  \t", AuthorName: "Ann"})
		require.NoError(t, err)
		assert.Equal(t, "ship it", sent, "fail=%v", fail)
		assert.Equal(t, "ship it", got.Content, "fail=%v", fail)
		assert.Equal(t, "ship it", s.Tree()[0].Content, "fail=%v", fail)
	}
}

func TestAddComment_Validation(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{createFn: serverCreate}
	s := loadedStore(t, remote)

	_, err := s.AddComment(context.Background(), Submission{Content: "   ", AuthorName: ""})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
	assert.Zero(t, remote.creates.Load())
	assert.Zero(t, s.Len())
}

func TestAddComment_RequiresLoadedEntity(t *testing.T) {
	t.Parallel()

	s := New(discardLogger(), &fakeRemote{createFn: serverCreate})
	_, err := s.AddComment(context.Background(), Submission{Content: "x", AuthorName: "y"})
	assert.ErrorIs(t, err, ErrNoEntity)
}

func TestAddComment_RejectsConcurrentSubmission(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	inFlight := make(chan struct{})
	var started sync.Once
	remote := &fakeRemote{createFn: func(ctx context.Context, in client.NewComment) (*domain.Comment, error) {
		started.Do(func() { close(inFlight) })
		<-release
		return serverCreate(ctx, in)
	}}
	s := loadedStore(t, remote)

	done := make(chan error, 1)
	go func() {
		_, err := s.AddComment(context.Background(), Submission{Content: "first", AuthorName: "Ann"})
		done <- err
	}()
	<-inFlight

	_, err := s.AddComment(context.Background(), Submission{Content: "second", AuthorName: "Ann"})
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	_, err = s.AddReply(context.Background(), uuid.New(), Submission{Content: "third", AuthorName: "Ann"})
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), remote.creates.Load())
	assert.Equal(t, 1, s.Len())

	_, err = s.AddComment(context.Background(), Submission{Content: "after", AuthorName: "Ann"})
	assert.NoError(t, err, "guard must be released after completion")
	assert.Equal(t, int32(2), remote.creates.Load())
	assert.Equal(t, 2, s.Len())
}

func TestAddReply_AppendsToParentOnly(t *testing.T) {
	t.Parallel()

	for _, fail := range []bool{false, true} {
		a, b := comment("a"), comment("b")
		remote := &fakeRemote{createFn: func(ctx context.Context, in client.NewComment) (*domain.Comment, error) {
			if fail {
				return nil, errRemote
			}
			return serverCreate(ctx, in)
		}}
		s := loadedStore(t, remote, a, b)

		reply, err := s.AddReply(context.Background(), a.ID, Submission{Content: "re", AuthorName: "Bob"})
		require.NoError(t, err)
		assert.Equal(t, &a.ID, reply.ParentID)

		tree := s.Tree()
		require.Len(t, tree, 2)
		require.Len(t, tree[0].Replies, 1, "fail=%v", fail)
		assert.Equal(t, reply.ID, tree[0].Replies[0].ID)
		assert.Empty(t, tree[1].Replies)
	}
}

func TestAddReply_NestedParent(t *testing.T) {
	t.Parallel()

	nested := comment("nested")
	root := comment("root", nested)
	remote := &fakeRemote{createFn: serverCreate}
	s := loadedStore(t, remote, root)

	reply, err := s.AddReply(context.Background(), nested.ID, Submission{Content: "deeper", AuthorName: "Cy"})
	require.NoError(t, err)

	tree := s.Tree()
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].Replies[0].ID)
}

func TestAddReply_UnknownParentSendsNothing(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{createFn: serverCreate}
	s := loadedStore(t, remote, comment("a"))

	_, err := s.AddReply(context.Background(), uuid.New(), Submission{Content: "x", AuthorName: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, remote.creates.Load())
	assert.Equal(t, 1, s.Len())
}

func TestAddComment_NotAttachedAfterEntitySwitch(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	inFlight := make(chan struct{})
	remote := &fakeRemote{
		listFn: func(context.Context, domain.EntityRef) ([]*domain.Comment, error) { return nil, nil },
		createFn: func(ctx context.Context, in client.NewComment) (*domain.Comment, error) {
			close(inFlight)
			<-release
			return serverCreate(ctx, in)
		},
	}
	s := loadedStore(t, remote)

	done := make(chan *domain.Comment, 1)
	go func() {
		c, _ := s.AddComment(context.Background(), Submission{Content: "x", AuthorName: "y"})
		done <- c
	}()
	<-inFlight

	_, err := s.Load(context.Background(), domain.EntityRef{Type: "project", ID: "7"})
	require.NoError(t, err)
	close(release)

	c := <-done
	require.NotNil(t, c)
	assert.Equal(t, entity, c.Entity)
	assert.Zero(t, s.Len(), "comment of the old entity must not leak into the new thread")
}

// ---------------------------------------------------------------------------
// AddReaction
// ---------------------------------------------------------------------------

func TestAddReaction_SuccessIncrementsOnlyTarget(t *testing.T) {
	t.Parallel()

	nested := comment("nested")
	other := comment("other")
	other.Reactions[domain.ReactionLike] = 3
	remote := &fakeRemote{reactionFn: func(context.Context, uuid.UUID, domain.ReactionKind) error { return nil }}
	s := loadedStore(t, remote, comment("root", nested), other)

	require.NoError(t, s.AddReaction(context.Background(), nested.ID, domain.ReactionLike))

	got, _ := s.Find(nested.ID)
	assert.Equal(t, 1, got.Reactions[domain.ReactionLike])
	unchanged, _ := s.Find(other.ID)
	assert.Equal(t, domain.ReactionCounts{domain.ReactionLike: 3}, unchanged.Reactions)
}

func TestAddReaction_FailureRollsBack(t *testing.T) {
	t.Parallel()

	a := comment("a")
	var seenDuringCall int
	var s *Store
	remote := &fakeRemote{reactionFn: func(_ context.Context, id uuid.UUID, kind domain.ReactionKind) error {
		c, _ := s.Find(id)
		seenDuringCall = c.Reactions[kind]
		return errRemote
	}}
	s = loadedStore(t, remote, a)

	err := s.AddReaction(context.Background(), a.ID, domain.ReactionLike)
	require.ErrorIs(t, err, errRemote)
	assert.Equal(t, 1, seenDuringCall, "increment must be visible before the call resolves")

	got, _ := s.Find(a.ID)
	assert.Zero(t, got.Reactions[domain.ReactionLike])
	assert.GreaterOrEqual(t, got.Reactions[domain.ReactionLike], 0)
}

func TestAddReaction_LocalOnlyCommentIsNotSent(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{
		createFn:   func(context.Context, client.NewComment) (*domain.Comment, error) { return nil, errRemote },
		reactionFn: func(context.Context, uuid.UUID, domain.ReactionKind) error { return nil },
	}
	s := loadedStore(t, remote)

	echo, err := s.AddComment(context.Background(), Submission{Content: "offline", AuthorName: "Ann"})
	require.NoError(t, err)
	require.Equal(t, domain.SyncStatusLocalOnly, echo.SyncStatus)

	err = s.AddReaction(context.Background(), echo.ID, domain.ReactionLike)
	assert.ErrorIs(t, err, ErrUnsynced)
	assert.Zero(t, remote.reactions.Load())

	got, ok := s.Find(echo.ID)
	require.True(t, ok)
	assert.Zero(t, got.Reactions[domain.ReactionLike])
}

func TestAddReaction_UnknownCommentOrKind(t *testing.T) {
	t.Parallel()

	remote := &fakeRemote{reactionFn: func(context.Context, uuid.UUID, domain.ReactionKind) error { return nil }}
	s := loadedStore(t, remote, comment("a"))

	assert.ErrorIs(t, s.AddReaction(context.Background(), uuid.New(), domain.ReactionLike), domain.ErrNotFound)
	assert.ErrorIs(t, s.AddReaction(context.Background(), uuid.New(), domain.ReactionKind("meh")), domain.ErrValidation)
	assert.Zero(t, remote.reactions.Load())
}

func TestAddReaction_OverlappingFailuresCancelOut(t *testing.T) {
	t.Parallel()

	a := comment("a")
	a.Reactions[domain.ReactionLove] = 2

	var arrived sync.WaitGroup
	arrived.Add(2)
	release := make(chan struct{})
	remote := &fakeRemote{reactionFn: func(context.Context, uuid.UUID, domain.ReactionKind) error {
		arrived.Done()
		<-release
		return errRemote
	}}
	s := loadedStore(t, remote, a)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddReaction(context.Background(), a.ID, domain.ReactionLove)
		}()
	}

	arrived.Wait()
	mid, _ := s.Find(a.ID)
	assert.Equal(t, 4, mid.Reactions[domain.ReactionLove])

	close(release)
	wg.Wait()

	got, _ := s.Find(a.ID)
	assert.Equal(t, 2, got.Reactions[domain.ReactionLove])
}

func TestAddReaction_ReloadBeforeCompensationNeverNegative(t *testing.T) {
	t.Parallel()

	a := comment("a")
	inFlight := make(chan struct{})
	release := make(chan struct{})
	remote := &fakeRemote{
		listFn: func(context.Context, domain.EntityRef) ([]*domain.Comment, error) {
			fresh := *a
			fresh.Reactions = domain.ReactionCounts{}
			return []*domain.Comment{&fresh}, nil
		},
		reactionFn: func(context.Context, uuid.UUID, domain.ReactionKind) error {
			close(inFlight)
			<-release
			return errRemote
		},
	}
	s := loadedStore(t, remote)

	done := make(chan error, 1)
	go func() { done <- s.AddReaction(context.Background(), a.ID, domain.ReactionSad) }()
	<-inFlight

	_, err := s.Load(context.Background(), entity)
	require.NoError(t, err)
	close(release)
	require.Error(t, <-done)

	got, _ := s.Find(a.ID)
	assert.Equal(t, 0, got.Reactions[domain.ReactionSad])
}
