package repository

import (
	"sync"
	"testing"

	"github.com/rocketscienceinc/blackwhite-backend/internal/entity"
	"github.com/rocketscienceinc/blackwhite-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player with ID
	player := &entity.Player{
		ID:   "123",
		Name: "Guest_Panda",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and player is stored
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a player with ID
		player := &entity.Player{
			ID:   "123",
			Name: "Guest_Panda",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player should match the saved player
		require.NoError(t, err)
		require.Equal(t, player.ID, retrievedPlayer.ID)
		require.Equal(t, player.Name, retrievedPlayer.Name)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		nonExistentPlayerID := "9999999"

		// When: GetByID is called with non-existent ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, nonExistentPlayerID)

		// Then: an ErrPlayerNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrPlayerNotFound, err)
		assert.Nil(t, retrievedPlayer)
	})
}

func TestPlayerRepository_GetOrCreate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// When: several callers resolve the same alias concurrently
	const callers = 8
	ids := make([]string, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			candidate := &entity.Player{ID: string(rune('a' + i)), Simulated: true}
			player, err := playerRepo.GetOrCreate(ctx, "simulated-opponent", candidate)
			if assert.NoError(t, err) {
				ids[i] = player.ID
			}
		}(i)
	}
	wg.Wait()

	// Then: exactly one identity wins
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	stored, err := playerRepo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, stored.IsSimulated())
}
