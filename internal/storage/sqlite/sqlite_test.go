package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	require.NoError(t, err, "create store")
	t.Cleanup(func() { store.Close() })

	return store
}

func createUsers(t *testing.T, store *SQLiteStore, names ...string) []models.Member {
	t.Helper()

	members := make([]models.Member, len(names))
	for i, name := range names {
		user := models.NewUser(name+"@example.com", name, "hash")
		require.NoError(t, store.CreateUser(context.Background(), user))
		members[i] = user.AsMember()
	}
	return members
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "Alice", got.DisplayName)
	})

	t.Run("GetUserByID", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("missing user is ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
	})

	t.Run("duplicate email differing in case", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("ALICE@example.com", "Other", "hash"))
		assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
	})

	t.Run("duplicate id", func(t *testing.T) {
		other := models.NewUser("other@example.com", "Other", "hash")
		other.ID = user.ID
		assert.ErrorIs(t, store.CreateUser(ctx, other), storage.ErrDuplicateUser)
	})

	t.Run("email is stored normalized", func(t *testing.T) {
		bob := models.NewUser(" Bob@Example.com", "Bob", "hash")
		require.NoError(t, store.CreateUser(ctx, bob))
		assert.Equal(t, "bob@example.com", bob.Email)

		got, err := store.GetUserByEmail(ctx, "BOB@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.ID)
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	people := createUsers(t, store, "Alice", "Bob", "Charlie")

	group := &models.Group{Name: "Roommates", Members: people[:2]}
	require.NoError(t, store.CreateGroup(ctx, group))

	t.Run("CreateGroup generates ID and timestamp", func(t *testing.T) {
		assert.NotEmpty(t, group.ID)
		assert.NotZero(t, group.CreatedAt)
	})

	t.Run("GetGroup returns members in join order", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Roommates", got.Name)
		assert.Equal(t, people[:2], got.Members)
	})

	t.Run("AddGroupMember appends", func(t *testing.T) {
		require.NoError(t, store.AddGroupMember(ctx, group.ID, people[2].ID))

		members, err := store.ListGroupMembers(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, people, members)
	})

	t.Run("AddGroupMember twice", func(t *testing.T) {
		err := store.AddGroupMember(ctx, group.ID, people[0].ID)
		assert.ErrorIs(t, err, storage.ErrAlreadyMember)
	})

	t.Run("ListGroupsForUser", func(t *testing.T) {
		other := &models.Group{Name: "Work", Members: people[2:]}
		require.NoError(t, store.CreateGroup(ctx, other))

		groups, err := store.ListGroupsForUser(ctx, people[0].ID)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, group.ID, groups[0].ID)

		groups, err = store.ListGroupsForUser(ctx, people[2].ID)
		require.NoError(t, err)
		assert.Len(t, groups, 2)
	})

	t.Run("UpdateGroup", func(t *testing.T) {
		require.NoError(t, store.UpdateGroup(ctx, &models.Group{ID: group.ID, Name: "Flat 4B", Image: "https://img/4b.png"}))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flat 4B", got.Name)
		assert.Equal(t, "https://img/4b.png", got.Image)
	})

	t.Run("RemoveGroupMember", func(t *testing.T) {
		require.NoError(t, store.RemoveGroupMember(ctx, group.ID, people[1].ID))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.False(t, got.HasMember(people[1].ID))

		err = store.RemoveGroupMember(ctx, group.ID, people[1].ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("missing group is ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.UpdateGroup(ctx, &models.Group{ID: "nonexistent-id", Name: "x"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSQLiteStore_Expenditures(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	people := createUsers(t, store, "Alice", "Bob", "Charlie")

	group := &models.Group{Name: "Trip", Members: people}
	require.NoError(t, store.CreateGroup(ctx, group))

	paid := &models.Expenditure{
		GroupID:      group.ID,
		Title:        "Dinner",
		Amount:       90,
		Payer:        models.PaidBy(people[0].ID),
		Contributors: []string{people[2].ID, people[0].ID, people[1].ID},
	}
	unpaid := &models.Expenditure{
		GroupID:      group.ID,
		Title:        "Taxi",
		Amount:       30,
		Payer:        models.NoPayer(),
		Contributors: []string{people[1].ID},
	}
	require.NoError(t, store.CreateExpenditure(ctx, paid))
	require.NoError(t, store.CreateExpenditure(ctx, unpaid))

	t.Run("GetExpenditure keeps contributor order", func(t *testing.T) {
		got, err := store.GetExpenditure(ctx, paid.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dinner", got.Title)
		assert.Equal(t, 90.0, got.Amount)
		payerID, ok := got.Payer.Get()
		assert.True(t, ok)
		assert.Equal(t, people[0].ID, payerID)
		assert.Equal(t, paid.Contributors, got.Contributors)
	})

	t.Run("missing payer round-trips as unset", func(t *testing.T) {
		got, err := store.GetExpenditure(ctx, unpaid.ID)
		require.NoError(t, err)
		assert.False(t, got.Payer.IsSet())
	})

	t.Run("ListExpendituresByGroup", func(t *testing.T) {
		list, err := store.ListExpendituresByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, paid.ID, list[0].ID)
		assert.Equal(t, unpaid.ID, list[1].ID)
		assert.Len(t, list[0].Contributors, 3)
	})

	t.Run("UpdateExpenditure replaces contributors", func(t *testing.T) {
		unpaid.Payer = models.PaidBy(people[1].ID)
		unpaid.Contributors = []string{people[0].ID, people[1].ID}
		unpaid.Amount = 32.5
		require.NoError(t, store.UpdateExpenditure(ctx, unpaid))

		got, err := store.GetExpenditure(ctx, unpaid.ID)
		require.NoError(t, err)
		assert.True(t, got.Payer.IsSet())
		assert.Equal(t, 32.5, got.Amount)
		assert.Equal(t, unpaid.Contributors, got.Contributors)
	})

	t.Run("DeleteExpenditure", func(t *testing.T) {
		require.NoError(t, store.DeleteExpenditure(ctx, unpaid.ID))

		_, err := store.GetExpenditure(ctx, unpaid.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.DeleteExpenditure(ctx, unpaid.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		require.NoError(t, store.DeleteGroup(ctx, group.ID))

		_, err := store.GetExpenditure(ctx, paid.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestRunMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, RunMigrations(dbPath, Up))
	require.NoError(t, RunMigrations(dbPath, Up), "second run is a no-op")

	version, dirty, err := SchemaVersion(dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, RunMigrations(dbPath, Down))
	version, _, err = SchemaVersion(dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}
