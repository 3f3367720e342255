package capgains

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// QuoteSource supplies current market prices for securities.
type QuoteSource interface {
	// Batch hints that the given securities are about to be queried so the
	// source can prefetch them. Best effort: it never fails, a security it
	// could not prefetch simply fails later in Get.
	Batch(securities ...string)
	// Get returns the current price of one security, or an error wrapping
	// ErrQuoteUnavailable when no price is known.
	Get(security string) (Money, error)
}

// StaticQuotes is a fixed in-memory quote source, fed from a quotes file or
// assembled by hand in tests.
type StaticQuotes map[string]Money

func (q StaticQuotes) Batch(securities ...string) {}

func (q StaticQuotes) Get(security string) (Money, error) {
	price, ok := q[security]
	if !ok {
		return Money{}, fmt.Errorf("no price for %q: %w", security, ErrQuoteUnavailable)
	}
	return price, nil
}

// lsChartURL serves a mini intraday chart per instrument; the last data
// point is the latest traded price.
const lsChartURL = "https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument?instrumentId=%s&series=intraday&type=mini"

// LiveQuotes fetches latest traded prices from the Lang & Schwarz JSON API.
// Securities are addressed through an instrument-id mapping supplied by the
// caller; all prices are quoted in EUR on that venue.
//
// Distinct securities have no data dependency on each other, so Batch
// prefetches them concurrently; Get then serves from the memo. Requests are
// paced so a large batch stays polite, and responses ride the daily disk
// cache shared with the other fetchers.
type LiveQuotes struct {
	client      *http.Client
	limiter     *rate.Limiter
	memo        *cache.Cache
	instruments map[string]string // security -> instrument id
	base        string            // chart URL format, overridable in tests
}

// NewLiveQuotes creates a live source for the given security to instrument-id
// mapping.
func NewLiveQuotes(instruments map[string]string) *LiveQuotes {
	return &LiveQuotes{
		client:      daily(),
		limiter:     rate.NewLimiter(rate.Every(200*time.Millisecond), 4),
		memo:        cache.New(5*time.Minute, 10*time.Minute),
		instruments: instruments,
		base:        lsChartURL,
	}
}

// Batch implements QuoteSource by warming the memo for every security not
// already in it, in parallel.
func (q *LiveQuotes) Batch(securities ...string) {
	var wg sync.WaitGroup
	for _, sec := range securities {
		if _, ok := q.memo.Get(sec); ok {
			continue
		}
		wg.Add(1)
		go func(sec string) {
			defer wg.Done()
			if _, err := q.Get(sec); err != nil {
				log.Printf("prefetch %q: %v", sec, err)
			}
		}(sec)
	}
	wg.Wait()
}

// Get implements QuoteSource.
func (q *LiveQuotes) Get(security string) (Money, error) {
	if v, ok := q.memo.Get(security); ok {
		return v.(Money), nil
	}
	id, ok := q.instruments[security]
	if !ok {
		return Money{}, fmt.Errorf("security %q has no instrument mapping: %w", security, ErrQuoteUnavailable)
	}
	if err := q.limiter.Wait(context.Background()); err != nil {
		return Money{}, err
	}
	val, err := q.lastTraded(security, id)
	if err != nil {
		return Money{}, fmt.Errorf("%v: %w", err, ErrQuoteUnavailable)
	}
	price := M(val, "EUR")
	q.memo.Set(security, price, cache.DefaultExpiration)
	return price, nil
}

// lastTraded extracts the latest intraday data point from the chart payload.
func (q *LiveQuotes) lastTraded(name, id string) (float64, error) {
	addr := fmt.Sprintf(q.base, id)
	var jobj any
	if err := jwget(q.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error in wget %q: %w", name, err)
	}
	path := "$.series.intraday.data[-1:][1]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %q %w", name, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("error parsing %q: %q not a float: %v", name, path, jval)
	}
	if val == 0 {
		return 0, fmt.Errorf("empty last trade for %q", name)
	}
	return val, nil
}
