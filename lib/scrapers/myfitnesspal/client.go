package myfitnesspal

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"diary-export/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://www.myfitnesspal.com"

var ErrLoginFailed = fmt.Errorf("Failed to login to your account.")
var ErrSessionExpired = fmt.Errorf("The session is no longer logged in.")

type Client struct {
	BaseUrl   *url.URL
	Http      *resty.Client
	Selectors Selectors
	// Username is the account that logged in, it scopes cache entries.
	Username string

	cache *pageCache
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// optional, report pages are not cached when nil
	Cache     *badger.DB
	Selectors Selectors
	// defaults to 30 seconds
	Timeout time.Duration
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	c := &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		Selectors: opts.Selectors.withDefaults(),
	}
	if opts.Cache != nil {
		c.cache = &pageCache{db: opts.Cache, baseUrl: baseUrl}
	}
	return c, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*resty.Response, *goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, nil, err
	}
	if res.IsError() {
		return res, nil, fmt.Errorf("GET %s: unexpected status %s", endpoint, res.Status())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return res, nil, err
	}
	return res, doc, nil
}

func hasLoginForm(doc *goquery.Document) bool {
	return doc.Find("form input[type=password]").Length() > 0
}

func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	_, doc, err := c.get(ctx, "/account/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}

	token := doc.Find("input[name=authenticity_token]").AttrOr("value", "")
	if token == "" {
		span.SetStatus(codes.Error, "failed to find login token")
		return fmt.Errorf("could not find login token")
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"utf8":               "✓",
			"authenticity_token": token,
			"username":           username,
			"password":           password,
			"remember_me":        "1",
		}).
		Post("/account/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return fmt.Errorf("%w (status %s)", ErrLoginFailed, res.Status())
	}

	doc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login response html")
		return err
	}
	if hasLoginForm(doc) {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return ErrLoginFailed
	}

	c.Username = username
	return nil
}
