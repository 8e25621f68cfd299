package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"articlehub/internal/db"
	"articlehub/internal/models"
)

func TestComments_UnapprovedArticle(t *testing.T) {
	t.Run("guest listing looks missing", func(t *testing.T) {
		h := newHarness(t)
		h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(article(models.StatusPending), nil)

		status, env := h.do(http.MethodGet, "/api/comments/article/1", 0, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "article not found", env.Error)
	})

	t.Run("author cannot comment yet", func(t *testing.T) {
		h := newHarness(t)
		h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(article(models.StatusPending), nil)

		status, env := h.do(http.MethodPost, "/api/comments/article/1", authorID, map[string]any{"content": "first!"})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "article is not approved yet", env.Error)
	})
}

func TestComments_Create(t *testing.T) {
	h := newHarness(t)
	h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(article(models.StatusApproved), nil).Times(2)
	h.comments.EXPECT().CreateComment(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *models.Comment) error {
		assert.Equal(t, strangerID, c.UserID)
		assert.Equal(t, "Great read", c.Content)
		c.ID = 40
		c.IsApproved = true
		return nil
	})

	status, env := h.do(http.MethodPost, "/api/comments/article/1", strangerID, map[string]any{"content": "  Great read  "})
	require.Equal(t, http.StatusCreated, status)

	var got models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(40), got.ID)
	assert.Contains(t, h.activity.actions(), models.ActivityCreateComment)

	status, env = h.do(http.MethodPost, "/api/comments/article/1", strangerID, map[string]any{"content": "ok"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "comment must be at least 3 characters", env.Error)
}

func TestComments_ListIncludesHiddenForModerators(t *testing.T) {
	h := newHarness(t)
	h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(article(models.StatusApproved), nil).Times(2)
	h.comments.EXPECT().ListComments(gomock.Any(), int64(1), false).Return(nil, nil)
	h.comments.EXPECT().ListComments(gomock.Any(), int64(1), true).Return([]models.Comment{{ID: 1}}, nil)

	status, env := h.do(http.MethodGet, "/api/comments/article/1", 0, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, _ = h.do(http.MethodGet, "/api/comments/article/1", moderatorID, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestComments_Delete(t *testing.T) {
	comment := &models.Comment{ID: 3, ArticleID: 1, UserID: authorID, Content: "mine"}

	t.Run("other user is forbidden", func(t *testing.T) {
		h := newHarness(t)
		h.comments.EXPECT().GetComment(gomock.Any(), int64(3)).Return(comment, nil)

		status, _ := h.do(http.MethodDelete, "/api/comments/3", strangerID, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("admin deletes", func(t *testing.T) {
		h := newHarness(t)
		h.comments.EXPECT().GetComment(gomock.Any(), int64(3)).Return(comment, nil)
		h.comments.EXPECT().DeleteComment(gomock.Any(), int64(3)).Return(nil)

		status, _ := h.do(http.MethodDelete, "/api/comments/3", adminID, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, h.activity.actions(), models.ActivityDeleteComment)
	})

	t.Run("missing comment", func(t *testing.T) {
		h := newHarness(t)
		h.comments.EXPECT().GetComment(gomock.Any(), int64(9)).Return(nil, db.ErrCommentNotFound)

		status, env := h.do(http.MethodDelete, "/api/comments/9", authorID, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "comment not found", env.Error)
	})
}

func TestLikes(t *testing.T) {
	t.Run("count on hidden article looks missing", func(t *testing.T) {
		h := newHarness(t)
		h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(article(models.StatusRejected), nil)

		status, _ := h.do(http.MethodGet, "/api/likes/1/count", 0, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("count on approved article", func(t *testing.T) {
		h := newHarness(t)
		h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(article(models.StatusApproved), nil)
		h.likes.EXPECT().CountLikes(gomock.Any(), int64(1)).Return(int64(12), nil)

		status, env := h.do(http.MethodGet, "/api/likes/1/count", 0, nil)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"total":12}`, string(env.Data))
	})

	t.Run("liking twice records once", func(t *testing.T) {
		h := newHarness(t)
		h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(article(models.StatusApproved), nil).Times(2)
		gomock.InOrder(
			h.likes.EXPECT().LikeArticle(gomock.Any(), strangerID, int64(1)).Return(true, nil),
			h.likes.EXPECT().LikeArticle(gomock.Any(), strangerID, int64(1)).Return(false, nil),
		)

		for range 2 {
			status, env := h.do(http.MethodPost, "/api/likes/1", strangerID, nil)
			require.Equal(t, http.StatusOK, status)
			assert.JSONEq(t, `{"liked":true}`, string(env.Data))
		}
		assert.Equal(t, []string{models.ActivityLikeArticle}, h.activity.actions())
	})

	t.Run("liking requires login", func(t *testing.T) {
		h := newHarness(t)

		status, _ := h.do(http.MethodPost, "/api/likes/1", 0, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestStoreFailureIsHidden(t *testing.T) {
	h := newHarness(t)
	h.articles.EXPECT().GetArticleByID(gomock.Any(), int64(1)).Return(nil, assert.AnError)

	status, env := h.do(http.MethodGet, "/api/articles/1", 0, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", env.Error)
}
