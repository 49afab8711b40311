package qiitaapi

import (
	"context"
	"fmt"

	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
)

// ArticleRepository reads articles written by a user.
type ArticleRepository struct {
	fetcher   ports.Fetcher
	endpoints Endpoints
}

// NewArticleRepository creates an ArticleRepository.
func NewArticleRepository(fetcher ports.Fetcher, endpoints Endpoints) *ArticleRepository {
	return &ArticleRepository{fetcher: fetcher, endpoints: endpoints}
}

// FetchByUserID returns one page of the articles written by userID.
func (r *ArticleRepository) FetchByUserID(ctx context.Context, userID string, page int) ([]model.Article, error) {
	req, err := r.endpoints.UserArticles(userID, page)
	if err != nil {
		return nil, err
	}

	var articles []model.Article
	if err := r.fetcher.Fetch(ctx, req, &articles); err != nil {
		return nil, clientError(fmt.Sprintf("failed to fetch articles of %q", userID), err)
	}
	return articles, nil
}
