package memory

import (
	"errors"
	"testing"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTutorSessionRepository(t *testing.T) {
	repo := NewTutorSessionRepository()
	repo.Save(&entity.TutorSession{Id: "s1", UserId: "u1"})

	t.Run("get returns an independent copy", func(t *testing.T) {
		got, ok := repo.Get("s1")
		require.True(t, ok)
		got.History = append(got.History, llm.Message{Role: llm.RoleUser, Content: "stray"})

		again, _ := repo.Get("s1")
		assert.Empty(t, again.History)
	})

	t.Run("update persists", func(t *testing.T) {
		err := repo.Update("s1", func(s *entity.TutorSession) error {
			s.History = append(s.History, llm.Message{Role: llm.RoleUser, Content: "hi"})
			return nil
		})
		require.NoError(t, err)

		got, _ := repo.Get("s1")
		require.Len(t, got.History, 1)
		assert.Equal(t, "hi", got.History[0].Content)
	})

	t.Run("update error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		assert.ErrorIs(t, repo.Update("s1", func(*entity.TutorSession) error { return boom }), boom)
	})

	t.Run("missing session", func(t *testing.T) {
		_, ok := repo.Get("nope")
		assert.False(t, ok)
		assert.ErrorIs(t, repo.Update("nope", func(*entity.TutorSession) error { return nil }), ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo.Delete("s1")
		_, ok := repo.Get("s1")
		assert.False(t, ok)
	})
}
