package wordcache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/fasthttp"

	"github.com/kapu/kelime-bot-go/internal/turkish"
)

// Source is one external provider of a bulk word corpus. Implementations
// are tried in order by the cache; the first acceptable result wins.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (map[string]struct{}, error)
}

// Lookup is the authoritative single-word check consulted on cache misses.
type Lookup interface {
	Check(ctx context.Context, word string) (bool, error)
}

const (
	bulkTimeout   = 10 * time.Second
	lookupTimeout = 5 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Accepted word shape: Turkish letters only, 3-14 runes.
var wordPattern = regexp.MustCompile(`^[a-züğışöç]+$`)

func acceptableWord(w string) bool {
	n := len([]rune(w))
	return n > 2 && n < 15 && wordPattern.MatchString(w)
}

type httpDoer struct {
	http    *fasthttp.Client
	timeout time.Duration
}

func newHTTPDoer(timeout time.Duration) httpDoer {
	return httpDoer{
		http:    &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout, MaxConnsPerHost: 16},
		timeout: timeout,
	}
}

func (d httpDoer) get(ctx context.Context, uri string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(uri)
	req.Header.SetUserAgent(userAgent)

	if err := d.http.DoDeadline(req, resp, d.deadline(ctx)); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", status, uri)
	}
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func (d httpDoer) deadline(ctx context.Context) time.Time {
	own := time.Now().Add(d.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(own) {
		return dl
	}
	return own
}

// listSource downloads a newline-separated word list.
type listSource struct {
	url  string
	doer httpDoer
}

// NewListSource returns a Source backed by a plain-text word list URL.
func NewListSource(rawURL string) Source {
	return &listSource{url: rawURL, doer: newHTTPDoer(bulkTimeout)}
}

func (s *listSource) Name() string { return "wordlist" }

func (s *listSource) Fetch(ctx context.Context) (map[string]struct{}, error) {
	body, err := s.doer.get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	words := make(map[string]struct{})
	for _, line := range strings.Split(string(body), "\n") {
		w := turkish.Lower(line)
		if acceptableWord(w) {
			words[w] = struct{}{}
		}
	}
	return words, nil
}

// wiktionarySource scrapes word links out of a Wiktionary category page.
type wiktionarySource struct {
	url  string
	doer httpDoer
}

// NewWiktionarySource returns a Source scraping a Wiktionary category page.
func NewWiktionarySource(rawURL string) Source {
	return &wiktionarySource{url: rawURL, doer: newHTTPDoer(bulkTimeout)}
}

func (s *wiktionarySource) Name() string { return "wiktionary" }

func (s *wiktionarySource) Fetch(ctx context.Context) (map[string]struct{}, error) {
	body, err := s.doer.get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse category page: %w", err)
	}
	words := make(map[string]struct{})
	doc.Find("#mw-pages .mw-category-group ul li a").Each(func(_ int, sel *goquery.Selection) {
		w := turkish.Lower(sel.Text())
		if acceptableWord(w) {
			words[w] = struct{}{}
		}
	})
	return words, nil
}

// tdkLookup asks the TDK dictionary API whether a single word exists.
// The API answers with a JSON array of entries on a hit and with an error
// object otherwise.
type tdkLookup struct {
	baseURL string
	doer    httpDoer
}

// NewTDKLookup returns the authoritative single-word Lookup.
func NewTDKLookup(baseURL string) Lookup {
	return &tdkLookup{baseURL: strings.TrimRight(baseURL, "/"), doer: newHTTPDoer(lookupTimeout)}
}

func (l *tdkLookup) Check(ctx context.Context, word string) (bool, error) {
	uri := l.baseURL + "/gts?ara=" + url.QueryEscape(word)
	body, err := l.doer.get(ctx, uri)
	if err != nil {
		return false, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		// error responses are a JSON object, not an array
		return false, nil
	}
	return len(entries) > 0, nil
}
