package post

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/group"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/testutil"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

func TestCountByAuthor(t *testing.T) {
	mock := testutil.MockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE author_id = `).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := CountByAuthor(7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByAuthorAndIDNotFound(t *testing.T) {
	mock := testutil.MockDB(t)

	mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "author_id"}))

	p, err := FindByAuthorAndID(1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, p)
}

func setupPosts(t *testing.T) (*user.User, *user.User) {
	t.Helper()
	testutil.SQLite(t, &user.User{}, &group.Group{}, &Post{}, &Comment{})

	sarah := &user.User{Username: "sarah", Email: "sarah@example.com"}
	require.NoError(t, user.Create(sarah, "password123", 4))
	john := &user.User{Username: "john", Email: "john@example.com"}
	require.NoError(t, user.Create(john, "password123", 4))
	return sarah, john
}

func TestFeedQueries(t *testing.T) {
	sarah, john := setupPosts(t)

	g := &group.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, group.Create(g))

	require.NoError(t, Create(&Post{Text: "first", AuthorID: sarah.ID}))
	require.NoError(t, Create(&Post{Text: "second", AuthorID: john.ID, GroupID: &g.ID}))
	require.NoError(t, Create(&Post{Text: "third", AuthorID: sarah.ID, GroupID: &g.ID}))

	var all []Post
	require.NoError(t, FeedQuery().Find(&all).Error)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Text)
	assert.Equal(t, "first", all[2].Text)

	var grouped []Post
	require.NoError(t, ByGroup(g.ID).Find(&grouped).Error)
	assert.Len(t, grouped, 2)

	var bySarah []Post
	require.NoError(t, ByAuthor(sarah.ID).Find(&bySarah).Error)
	assert.Len(t, bySarah, 2)

	var none []Post
	require.NoError(t, ByAuthors(nil).Find(&none).Error)
	assert.Empty(t, none)

	var both []Post
	require.NoError(t, ByAuthors([]uint{sarah.ID, john.ID}).Find(&both).Error)
	assert.Len(t, both, 3)
}

func TestFindByAuthorAndIDScopesToAuthor(t *testing.T) {
	sarah, john := setupPosts(t)

	p := &Post{Text: "mine", AuthorID: sarah.ID}
	require.NoError(t, Create(p))

	found, err := FindByAuthorAndID(sarah.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "sarah", found.Author.Username)
	assert.Nil(t, found.Group)

	_, err = FindByAuthorAndID(john.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeepsAuthor(t *testing.T) {
	sarah, john := setupPosts(t)

	p := &Post{Text: "before", AuthorID: sarah.ID}
	require.NoError(t, Create(p))

	require.NoError(t, Update(p, map[string]interface{}{"text": "after", "author_id": john.ID}))

	got, err := FindByAuthorAndID(sarah.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
}

func TestUpdateMovesLoadedPostToAnotherGroup(t *testing.T) {
	sarah, _ := setupPosts(t)

	cats := &group.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, group.Create(cats))
	dogs := &group.Group{Title: "Dogs", Slug: "dogs"}
	require.NoError(t, group.Create(dogs))

	p := &Post{Text: "meow", AuthorID: sarah.ID, GroupID: &cats.ID}
	require.NoError(t, Create(p))

	// Loaded the way the edit handler loads it, Author and Group included.
	loaded, err := FindByAuthorAndID(sarah.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Group)

	require.NoError(t, Update(loaded, map[string]interface{}{"group_id": dogs.ID}))
	got, err := FindByAuthorAndID(sarah.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, dogs.ID, *got.GroupID)

	require.NoError(t, Update(got, map[string]interface{}{"group_id": nil}))
	got, err = FindByAuthorAndID(sarah.ID, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)
}

func TestDeleteCascadesComments(t *testing.T) {
	sarah, john := setupPosts(t)

	p := &Post{Text: "doomed", AuthorID: sarah.ID}
	require.NoError(t, Create(p))
	require.NoError(t, CreateComment(&Comment{Text: "first!", AuthorID: john.ID, PostID: p.ID}))
	require.NoError(t, CreateComment(&Comment{Text: "second", AuthorID: sarah.ID, PostID: p.ID}))

	comments, err := Comments(p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Text)
	assert.Equal(t, "john", comments[0].Author.Username)

	require.NoError(t, Delete(p))

	comments, err = Comments(p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestNormalizePage(t *testing.T) {
	for raw, want := range map[string]string{"": "1", "abc": "1", "0": "1", "-2": "1", "3": "3", "007": "7", "99999999999999999999": "last", "-99999999999999999999": "1"} {
		assert.Equal(t, want, normalizePage(raw), raw)
	}
}
