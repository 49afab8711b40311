package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"qiitawatch/internal/domain/model"
)

// Both list machines resolve every fetch, retries included, with exactly one
// loading state followed by appeared or alert.
func TestListMachinesEmitOneLoadingPerFetch(t *testing.T) {
	t.Parallel()

	t.Run("user detail", func(t *testing.T) {
		t.Parallel()

		d, script, _ := newDetail(t, detailUser)
		expectItems(t, script, 1, []model.Article{testArticle("X", 0)})
		expectItemsError(t, script, 2, errors.New("timeout"))
		expectItems(t, script, 2, []model.Article{testArticle("Q", -3)})
		appearDetail(t, d)
		ch := d.States()

		d.PushToRefresh(context.Background())
		d.TappedRetry(context.Background())

		kinds := []ViewKind{}
		fetches := []FetchState{}
		for range 4 {
			s := receive(t, ch)
			kinds = append(kinds, s.Kind)
			fetches = append(fetches, s.Fetch)
		}
		assert.Equal(t, []ViewKind{ViewLoading, ViewAlert, ViewLoading, ViewAppeared}, kinds)
		assert.Equal(t, FetchNextPage, fetches[0])
		assert.Equal(t, FetchNextPage, fetches[2])
	})

	t.Run("follow list", func(t *testing.T) {
		t.Parallel()

		f, script := newFollowList(t, Followees, "u1")
		script.
			Expect(followRequest(t, Followees, "u1", 1), []model.User{{ID: "a"}}).
			ExpectError(followRequest(t, Followees, "u1", 2), errors.New("timeout")).
			Expect(followRequest(t, Followees, "u1", 2), []model.User{{ID: "b"}})
		appearFollowList(t, f)
		ch := f.States()

		f.PushToRefresh(context.Background())
		f.TappedRetry(context.Background())

		kinds := []ViewKind{}
		fetches := []FetchState{}
		for range 4 {
			s := receive(t, ch)
			kinds = append(kinds, s.Kind)
			fetches = append(fetches, s.Fetch)
		}
		assert.Equal(t, []ViewKind{ViewLoading, ViewAlert, ViewLoading, ViewAppeared}, kinds)
		assert.Equal(t, FetchNextPage, fetches[0])
		assert.Equal(t, FetchNextPage, fetches[2])
	})
}
