package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/vbrank/pkg/logger"
)

// Discover fetches the HTML page at indexURL and returns one Source per
// distinct link to a .csv file, in page order. Links are resolved against
// the page URL and labelled by their text, or by the file name when the
// link has no text.
func (f *Fetcher) Discover(ctx context.Context, indexURL string) ([]Source, error) {
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("%w: index url: %w", ErrFetch, err)
	}

	body, err := f.Fetch(ctx, Source{Label: "index", URL: indexURL})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(Decode(body))))
	if err != nil {
		return nil, fmt.Errorf("%w: index page: %w", ErrParse, err)
	}

	seen := make(map[string]struct{})
	var out []Source
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		u := base.ResolveReference(ref)
		if !strings.EqualFold(path.Ext(u.Path), ".csv") {
			return
		}
		key := u.String()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		label := strings.Join(strings.Fields(s.Text()), " ")
		if label == "" {
			label = strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
		}
		out = append(out, Source{Label: label, URL: key})
	})

	f.logger.Info(ctx, "discovered sources",
		logger.String("index", indexURL),
		logger.Int("count", len(out)),
	)
	return out, nil
}
