package follow

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/database"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/testutil"
	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/user"
)

func TestIsFollowing(t *testing.T) {
	mock := testutil.MockDB(t)

	tests := []struct {
		name           string
		userID         uint
		authorID       uint
		mockRows       *sqlmock.Rows
		expectedResult bool
		expectedError  bool
	}{
		{
			name:     "User is following",
			userID:   1,
			authorID: 2,
			mockRows: sqlmock.NewRows([]string{"id", "created_at", "user_id", "author_id"}).
				AddRow(1, time.Now(), 1, 2),
			expectedResult: true,
			expectedError:  false,
		},
		{
			name:           "User is not following",
			userID:         1,
			authorID:       2,
			mockRows:       sqlmock.NewRows([]string{"id", "created_at", "user_id", "author_id"}),
			expectedResult: false,
			expectedError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectQuery(`SELECT`).WillReturnRows(tt.mockRows)

			result, err := IsFollowing(tt.userID, tt.authorID)

			assert.Equal(t, tt.expectedResult, result)
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func setupUsers(t *testing.T, names ...string) []user.User {
	t.Helper()
	testutil.SQLite(t, &user.User{}, &Follow{})

	users := make([]user.User, 0, len(names))
	for _, name := range names {
		u := user.User{Username: name, Email: name + "@example.com"}
		require.NoError(t, user.Create(&u, "password123", 4))
		users = append(users, u)
	}
	return users
}

func countEdges(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(&Follow{}).Count(&n).Error)
	return n
}

func TestFollowIsIdempotent(t *testing.T) {
	users := setupUsers(t, "reader", "writer")
	reader, writer := users[0], users[1]

	created, err := Add(reader.ID, writer.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Add(reader.ID, writer.ID)
	require.NoError(t, err)
	assert.False(t, created)

	assert.EqualValues(t, 1, countEdges(t))

	following, err := IsFollowing(reader.ID, writer.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = IsFollowing(writer.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestSelfFollowIsNoop(t *testing.T) {
	users := setupUsers(t, "narcissus")

	created, err := Add(users[0].ID, users[0].ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 0, countEdges(t))
}

func TestSelfFollowRejectedBySchema(t *testing.T) {
	users := setupUsers(t, "narcissus")

	err := database.DB.Omit(clause.Associations).Create(&Follow{UserID: users[0].ID, AuthorID: users[0].ID}).Error
	assert.Error(t, err)
}

func TestUnfollow(t *testing.T) {
	users := setupUsers(t, "reader", "writer")
	reader, writer := users[0], users[1]

	// No edge yet.
	require.NoError(t, Unfollow(reader.ID, writer.ID))
	assert.EqualValues(t, 0, countEdges(t))

	_, err := Add(reader.ID, writer.ID)
	require.NoError(t, err)
	require.NoError(t, Unfollow(reader.ID, writer.ID))
	assert.EqualValues(t, 0, countEdges(t))
}

func TestFollowedAuthorIDsAndCounts(t *testing.T) {
	users := setupUsers(t, "reader", "alice", "bob")
	reader, alice, bob := users[0], users[1], users[2]

	for _, author := range []user.User{alice, bob} {
		_, err := Add(reader.ID, author.ID)
		require.NoError(t, err)
	}
	_, err := Add(alice.ID, bob.ID)
	require.NoError(t, err)

	ids, err := FollowedAuthorIDs(reader.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, ids)

	followers, err := CountFollowers(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followers)

	following, err := CountFollowing(reader.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, following)
}

func TestDeletingUserDropsEdges(t *testing.T) {
	users := setupUsers(t, "reader", "writer")
	_, err := Add(users[0].ID, users[1].ID)
	require.NoError(t, err)

	require.NoError(t, database.DB.Delete(&user.User{}, users[1].ID).Error)
	assert.EqualValues(t, 0, countEdges(t))
}
