package myfitnesspal

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"diary-export/lib/diary"
	"diary-export/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// reports for ranges that are fully in the past do not change anymore
	PAST_REPORT_LIFETIME = time.Hour * 24 * 30
	// reports touching today change as the user logs food
	CURRENT_REPORT_LIFETIME = time.Minute * 15
)

func reportEndpoint(user string, from, to time.Time) string {
	return fmt.Sprintf(
		"/reports/printable_diary/%s?from=%s&to=%s",
		url.PathEscape(user),
		from.Format(timezone.DateLayout),
		to.Format(timezone.DateLayout),
	)
}

func reportLifetime(to time.Time) time.Duration {
	if timezone.Date(to).Before(timezone.Today()) {
		return PAST_REPORT_LIFETIME
	}
	return CURRENT_REPORT_LIFETIME
}

// PrintableDiary returns the raw html of the printable diary report of
// `user` between `from` and `to` (inclusive).
func (c *Client) PrintableDiary(ctx context.Context, user string, from, to time.Time) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:PrintableDiary")
	defer span.End()

	endpoint := reportEndpoint(user, from, to)
	span.SetAttributes(attribute.String("url", endpoint))

	if c.cache != nil {
		cached, err := c.cache.get(ctx, c.Username, endpoint)
		if err == nil {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return cached.Contents, nil
		}
		if err != errPageNotFound {
			span.RecordError(err)
		}
	}

	res, doc, err := c.get(ctx, endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if hasLoginForm(doc) {
		span.SetStatus(codes.Error, ErrSessionExpired.Error())
		return nil, ErrSessionExpired
	}

	if c.cache != nil {
		err = c.cache.set(ctx, c.Username, endpoint, page{
			Contents:  res.Body(),
			ExpiresAt: timezone.Now().Add(reportLifetime(to)).Unix(),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to cache request")
		}
	}

	return res.Body(), nil
}

// DiaryPage fetches the printable diary report and reduces it to a
// diary.Page.
func (c *Client) DiaryPage(ctx context.Context, user string, from, to time.Time) (diary.Page, error) {
	contents, err := c.PrintableDiary(ctx, user, from, to)
	if err != nil {
		return diary.Page{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(contents))
	if err != nil {
		return diary.Page{}, err
	}
	return PageFromDocument(ctx, doc, c.Selectors), nil
}
