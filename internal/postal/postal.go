// Package postal resolves Japanese postal codes to addresses through the
// zipcloud search API.
package postal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"golang.org/x/text/width"

	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/logging"
)

const serviceName = "postal"

// CodeLength is the number of digits in a postal code.
const CodeLength = 7

// Lookup outcomes. Errors returned by Lookup match exactly one of these
// with errors.Is.
var (
	ErrMalformedCode = errors.ErrMalformedInput
	ErrNoMatch       = errors.ErrNoMatch
	ErrLookupNetwork = errors.ErrNetwork
)

var (
	errEmptyCode  = errors.New("postal code is empty")
	errCodeLength = errors.New("postal code must be 7 digits")
)

// Address is the first match for a postal code.
type Address struct {
	ZipCode    string
	PrefCode   string
	Prefecture string
	City       string
	Town       string
	Kana       string
}

// Full joins prefecture, city and town the way the address field expects.
func (a Address) Full() string {
	return a.Prefecture + a.City + a.Town
}

type apiResult struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	Address3 string `json:"address3"`
	Kana1    string `json:"kana1"`
	Kana2    string `json:"kana2"`
	Kana3    string `json:"kana3"`
	PrefCode string `json:"prefcode"`
	ZipCode  string `json:"zipcode"`
}

type apiResponse struct {
	Status  int         `json:"status"`
	Message *string     `json:"message"`
	Results []apiResult `json:"results"`
}

// Client looks up postal codes and caches answers for its lifetime.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *fasthttp.Client
	logger   *logging.Logger
	cache    sync.Map
}

// NewClient returns a client for the search endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		http: &fasthttp.Client{
			Name:                "rosai",
			MaxConnsPerHost:     4,
			MaxIdleConnDuration: 90 * time.Second,
		},
		logger: logger.WithComponent("postal"),
	}
}

// Normalize joins code segments, folds full-width digits to ASCII and drops
// everything that is not a digit.
func Normalize(parts ...string) string {
	folded := width.Fold.String(strings.Join(parts, ""))
	var b strings.Builder
	for _, r := range folded {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LookupParts looks up a code entered as a 3-digit and a 4-digit segment.
// Both segments must be present.
func (c *Client) LookupParts(ctx context.Context, first, second string) (Address, error) {
	if Normalize(first) == "" || Normalize(second) == "" {
		return Address{}, errors.NewLookupError(serviceName, errors.LookupMalformed, errEmptyCode).
			WithQuery(first + "-" + second)
	}
	return c.Lookup(ctx, first+second)
}

// Lookup resolves code to its first matching address.
func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	normalized := Normalize(code)
	switch {
	case normalized == "":
		return Address{}, errors.NewLookupError(serviceName, errors.LookupMalformed, errEmptyCode).WithQuery(code)
	case len(normalized) != CodeLength:
		return Address{}, errors.NewLookupError(serviceName, errors.LookupMalformed, errCodeLength).WithQuery(code)
	}

	if cached, ok := c.cache.Load(normalized); ok {
		return cached.(Address), nil
	}

	addr, err := c.fetch(ctx, normalized)
	if err != nil {
		c.logger.Warn("postal lookup failed", "code", normalized, "error", err.Error())
		return Address{}, err
	}
	c.cache.Store(normalized, addr)
	c.logger.Debug("postal lookup succeeded", "code", normalized)
	return addr, nil
}

func (c *Client) fetch(ctx context.Context, code string) (Address, error) {
	if err := ctx.Err(); err != nil {
		return Address{}, errors.NewLookupError(serviceName, errors.LookupNetwork, err).WithQuery(code)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.URI().QueryArgs().Set("zipcode", code)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return Address{}, errors.NewLookupError(serviceName, errors.LookupNetwork, err).WithQuery(code)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return Address{}, errors.NewLookupError(serviceName, errors.LookupNetwork,
			fmt.Errorf("unexpected HTTP status %d", resp.StatusCode())).WithQuery(code)
	}

	var body apiResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return Address{}, errors.NewLookupError(serviceName, errors.LookupNetwork,
			errors.Wrap(err, "decode response")).WithQuery(code)
	}

	switch {
	case body.Status == fasthttp.StatusBadRequest:
		msg := "invalid postal code"
		if body.Message != nil {
			msg = *body.Message
		}
		return Address{}, errors.NewLookupError(serviceName, errors.LookupMalformed, errors.New(msg)).WithQuery(code)
	case body.Status != fasthttp.StatusOK:
		return Address{}, errors.NewLookupError(serviceName, errors.LookupNetwork,
			fmt.Errorf("service status %d", body.Status)).WithQuery(code)
	case len(body.Results) == 0:
		return Address{}, errors.NewLookupError(serviceName, errors.LookupNoMatch,
			errors.New("no address for postal code")).WithQuery(code)
	}

	r := body.Results[0]
	return Address{
		ZipCode:    r.ZipCode,
		PrefCode:   r.PrefCode,
		Prefecture: r.Address1,
		City:       r.Address2,
		Town:       r.Address3,
		Kana:       r.Kana1 + r.Kana2 + r.Kana3,
	}, nil
}

// UserMessage returns the message shown under the postal code field named
// label for a Lookup error.
func UserMessage(label string, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errEmptyCode):
		return "【" + label + "】を入力してください。"
	case errors.Is(err, ErrMalformedCode):
		return "【" + label + "】は7桁で入力してください（3桁-4桁）。"
	case errors.Is(err, ErrNoMatch):
		return "【" + label + "】該当する住所が見つかりませんでした。郵便番号を確認してください。"
	default:
		return "【" + label + "】住所検索中にエラーが発生しました。しばらく経ってから再度お試しください。"
	}
}
