package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostUnknownAuthor(t *testing.T) {
	content := NewContentService(newTestDB(t))

	_, err := content.CreatePost("a title", "https://example.com", 999)
	assert.ErrorIs(t, err, ErrUnknownAuthor)
}

func TestCreatePostRequiresTitle(t *testing.T) {
	gdb := newTestDB(t)
	alice := registerUser(t, NewAccountService(gdb), "alice")
	content := NewContentService(gdb)

	_, err := content.CreatePost("   ", "https://example.com", alice.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPostRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	alice := registerUser(t, NewAccountService(gdb), "alice")
	content := NewContentService(gdb)

	created, err := content.CreatePost("Show: LinkNest", "https://example.com/linknest", alice.ID)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.WithinDuration(t, time.Now().UTC(), created.CreatedAt, 5*time.Second)

	got, err := content.GetPost(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.URL, got.URL)
	assert.Equal(t, alice.ID, got.UserID)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
}

func TestPostLinkIsOptional(t *testing.T) {
	gdb := newTestDB(t)
	alice := registerUser(t, NewAccountService(gdb), "alice")
	content := NewContentService(gdb)

	post, err := content.CreatePost("Ask: best static site generator?", "", alice.ID)
	require.NoError(t, err)
	assert.Empty(t, post.URL)
}

func TestGetPostNotFound(t *testing.T) {
	content := NewContentService(newTestDB(t))

	_, err := content.GetPost(12345)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListPostsWithAuthors(t *testing.T) {
	gdb := newTestDB(t)
	accounts := NewAccountService(gdb)
	alice := registerUser(t, accounts, "alice")
	bob := registerUser(t, accounts, "bob")
	content := NewContentService(gdb)

	first, err := content.CreatePost("first", "", alice.ID)
	require.NoError(t, err)
	second, err := content.CreatePost("second", "", bob.ID)
	require.NoError(t, err)

	_, err = content.CreateComment("nice", first.ID, bob.ID, nil)
	require.NoError(t, err)

	posts, err := content.ListPostsWithAuthors()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// Insertion order, each post joined to its author.
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, "alice", posts[0].User.Username)
	assert.Equal(t, 1, posts[0].CommentCount)
	assert.Equal(t, second.ID, posts[1].ID)
	assert.Equal(t, "bob", posts[1].User.Username)
	assert.Equal(t, 0, posts[1].CommentCount)
}

func TestCreateCommentValidatesReferences(t *testing.T) {
	gdb := newTestDB(t)
	alice := registerUser(t, NewAccountService(gdb), "alice")
	content := NewContentService(gdb)

	post, err := content.CreatePost("a post", "", alice.ID)
	require.NoError(t, err)

	t.Run("unknown post", func(t *testing.T) {
		_, err := content.CreateComment("hi", 999, alice.ID, nil)
		assert.ErrorIs(t, err, ErrUnknownPost)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := content.CreateComment("hi", post.ID, 999, nil)
		assert.ErrorIs(t, err, ErrUnknownAuthor)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := content.CreateComment("  \n", post.ID, alice.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("nonexistent parent", func(t *testing.T) {
		missing := uint(999)
		_, err := content.CreateComment("hi", post.ID, alice.ID, &missing)
		assert.ErrorIs(t, err, ErrInvalidParent)
	})
}

func TestCreateCommentRejectsCrossPostParent(t *testing.T) {
	gdb := newTestDB(t)
	alice := registerUser(t, NewAccountService(gdb), "alice")
	content := NewContentService(gdb)

	postP, err := content.CreatePost("post P", "", alice.ID)
	require.NoError(t, err)
	postQ, err := content.CreatePost("post Q", "", alice.ID)
	require.NoError(t, err)

	onQ, err := content.CreateComment("comment on Q", postQ.ID, alice.ID, nil)
	require.NoError(t, err)

	_, err = content.CreateComment("nested under the wrong post", postP.ID, alice.ID, &onQ.ID)
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestListCommentsForPost(t *testing.T) {
	gdb := newTestDB(t)
	accounts := NewAccountService(gdb)
	alice := registerUser(t, accounts, "alice")
	bob := registerUser(t, accounts, "bob")
	content := NewContentService(gdb)

	post, err := content.CreatePost("discussion", "", alice.ID)
	require.NoError(t, err)
	other, err := content.CreatePost("unrelated", "", alice.ID)
	require.NoError(t, err)

	top, err := content.CreateComment("top level", post.ID, alice.ID, nil)
	require.NoError(t, err)
	_, err = content.CreateComment("a reply", post.ID, bob.ID, &top.ID)
	require.NoError(t, err)
	_, err = content.CreateComment("elsewhere", other.ID, bob.ID, nil)
	require.NoError(t, err)

	comments, err := content.ListCommentsForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Flat and in insertion order, regardless of nesting, authors attached.
	assert.Equal(t, "top level", comments[0].Content)
	assert.Equal(t, "alice", comments[0].User.Username)
	assert.Nil(t, comments[0].ParentID)
	assert.Equal(t, "a reply", comments[1].Content)
	assert.Equal(t, "bob", comments[1].User.Username)
	require.NotNil(t, comments[1].ParentID)
	assert.Equal(t, top.ID, *comments[1].ParentID)
}

func TestConcurrentCommentCreation(t *testing.T) {
	gdb := newTestDB(t)
	alice := registerUser(t, NewAccountService(gdb), "alice")
	content := NewContentService(gdb)

	post, err := content.CreatePost("busy thread", "", alice.ID)
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := content.CreateComment(fmt.Sprintf("comment %d", i), post.ID, alice.ID, nil)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	comments, err := content.ListCommentsForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, n)

	seen := make(map[uint]bool, n)
	for _, c := range comments {
		assert.False(t, seen[c.ID], "duplicate comment id %d", c.ID)
		seen[c.ID] = true
	}
}
