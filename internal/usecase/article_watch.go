package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
	"qiitawatch/internal/pagination"
)

// ErrAllUsersFailed is returned when no watched user could be checked.
var ErrAllUsersFailed = errors.New("article watch: every user failed")

// ArticleWatch reports articles that appeared since the previous run for a set of users.
type ArticleWatch struct {
	articles ArticleSource
	seen     ports.SeenStore
	notifier ports.Notifier
	logger   ports.Logger
	users    []string
}

// ArticleWatchConfig lists the watched user ids.
type ArticleWatchConfig struct {
	Users []string
}

// NewArticleWatch constructs an ArticleWatch use case.
func NewArticleWatch(
	articles ArticleSource,
	seen ports.SeenStore,
	notifier ports.Notifier,
	logger ports.Logger,
	cfg ArticleWatchConfig,
) *ArticleWatch {
	return &ArticleWatch{
		articles: articles,
		seen:     seen,
		notifier: notifier,
		logger:   logger,
		users:    cfg.Users,
	}
}

// Run checks every watched user once. The first run for a user only records what exists.
func (w *ArticleWatch) Run(ctx context.Context) error {
	start := time.Now()
	w.logger.Info(ctx, "starting article watch", "users", len(w.users))

	failed := 0
	for _, userID := range w.users {
		if err := w.checkUser(ctx, userID); err != nil {
			failed++
			w.logger.Error(ctx, "failed to check user", "user_id", userID, "error", err)
		}
	}

	if len(w.users) > 0 && failed == len(w.users) {
		return ErrAllUsersFailed
	}

	w.logger.Info(ctx, "article watch completed", "failed", failed, "duration", time.Since(start))
	return nil
}

func (w *ArticleWatch) checkUser(ctx context.Context, userID string) error {
	latest, err := w.articles.FetchByUserID(ctx, userID, 1)
	if err != nil {
		return fmt.Errorf("fetch articles: %w", err)
	}

	seeded, known, err := w.seen.Seen(ctx, userID)
	if err != nil {
		return fmt.Errorf("load seen articles: %w", err)
	}

	fresh := make([]model.Article, 0, len(latest))
	ids := make([]string, 0, len(latest))
	for _, a := range latest {
		ids = append(ids, a.ID)
		if _, ok := known[a.ID]; !ok {
			fresh = append(fresh, a)
		}
	}

	if !seeded {
		w.logger.Info(ctx, "seeding watched user", "user_id", userID, "articles", len(ids))
	} else if len(fresh) > 0 {
		notification := buildArticleNotification(userID, pagination.Articles(nil, fresh))
		if err := w.notifier.Send(ctx, notification); err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
		w.logger.Info(ctx, "notified new articles", "user_id", userID, "count", len(fresh))
	}

	if len(ids) == 0 && seeded {
		return nil
	}
	if err := w.seen.MarkSeen(ctx, userID, ids); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

func buildArticleNotification(userID string, articles []model.Article) model.Notification {
	fields := make([]model.NotificationField, 0, len(articles))
	for _, a := range articles {
		fields = append(fields, model.NotificationField{
			Name:   a.Title,
			Value:  formatArticleDetail(a),
			Inline: false,
		})
	}

	return model.Notification{
		Title:       fmt.Sprintf("New Qiita articles by %s", userID),
		Description: fmt.Sprintf("%d new article(s) since the last check.", len(articles)),
		URL:         "https://qiita.com/" + userID,
		Fields:      fields,
	}
}

func formatArticleDetail(a model.Article) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**Link:** %s\n", a.URL))
	builder.WriteString(fmt.Sprintf("**Posted:** %s", a.CreatedAt.Format(time.DateTime)))
	if a.LikesCount > 0 {
		builder.WriteString(fmt.Sprintf(" • %d likes", a.LikesCount))
	}
	if names := a.TagNames(); len(names) > 0 {
		builder.WriteString(fmt.Sprintf("\n**Tags:** %s", strings.Join(names, ", ")))
	}
	return builder.String()
}
