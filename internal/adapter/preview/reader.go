package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
)

const (
	maxPageBytes   = 4 << 20
	maxPreviewText = 6000
)

// Reader extracts readable article text with go-readability.
type Reader struct {
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.ArticlePreviewer = (*Reader)(nil)

// New creates a Reader with the supplied timeout.
func New(timeout time.Duration, logger ports.Logger) *Reader {
	return &Reader{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Preview fetches rawURL and returns its main text. Pages readability cannot handle
// fall back to a plain walk over the HTML text nodes.
func (r *Reader) Preview(ctx context.Context, rawURL string) (model.Preview, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return model.Preview{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return model.Preview{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return model.Preview{}, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Preview{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return model.Preview{}, fmt.Errorf("read body: %w", err)
	}

	preview := model.Preview{URL: rawURL}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		preview.Title = strings.TrimSpace(article.Title)
		preview.Text = strings.TrimSpace(article.TextContent)
	} else {
		r.logger.Warn(ctx, "readability failed, using plain text", "url", rawURL, "error", err)
	}

	if preview.Text == "" {
		preview.Text = strings.TrimSpace(htmlToText(string(body)))
	}
	preview.Text = truncate(collapseBlankLines(preview.Text), maxPreviewText)
	return preview, nil
}

func htmlToText(input string) string {
	if input == "" {
		return ""
	}

	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}

	var builder strings.Builder
	extractText(node, &builder)
	return builder.String()
}

func extractText(node *html.Node, builder *strings.Builder) {
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style" || node.Data == "head") {
		return
	}

	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
	case html.ElementNode:
		if isBlock(node.Data) {
			builder.WriteRune('\n')
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		extractText(child, builder)
	}

	if node.Type == html.ElementNode && isBlock(node.Data) && node.Data != "br" {
		builder.WriteRune('\n')
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "br", "p", "li", "pre", "h1", "h2", "h3", "h4", "div":
		return true
	}
	return false
}

func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
