package rbi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditbridge/scoring-service/internal/config"
)

const feedResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
	<soap12:Body>
		<PolicyRateResponse>
			<PolicyRate>
				<RR>
					<Date>2026-08-01</Date>
					<Rate>6.50</Rate>
				</RR>
				<RR>
					<Date>2026-07-01</Date>
					<Rate>6.25</Rate>
				</RR>
			</PolicyRate>
		</PolicyRateResponse>
	</soap12:Body>
</soap12:Envelope>`

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func TestRepoRate(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "soap+xml")
		w.Write([]byte(feedResponse))
	}))
	defer srv.Close()

	c := NewClient(&config.Config{RBIURL: srv.URL}, testLogger())

	rate, err := c.RepoRate()
	require.NoError(t, err)
	assert.Equal(t, 6.5, rate)

	// Second lookup is served from the cache.
	rate, err = c.RepoRate()
	require.NoError(t, err)
	assert.Equal(t, 6.5, rate)
	assert.Equal(t, 1, calls)
}

func TestRepoRateConcurrentFetchOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(feedResponse))
	}))
	defer srv.Close()

	c := NewClient(&config.Config{RBIURL: srv.URL}, testLogger())

	// All cache-miss callers must coalesce into a single feed request.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rate, err := c.RepoRate()
			assert.NoError(t, err)
			assert.Equal(t, 6.5, rate)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestRepoRateUnconfigured(t *testing.T) {
	c := NewClient(&config.Config{}, testLogger())
	_, err := c.RepoRate()
	assert.Error(t, err)
}

func TestRepoRateFeedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{RBIURL: srv.URL}, testLogger())
	_, err := c.RepoRate()
	assert.Error(t, err)
}

func TestRepoRateMalformedFeed(t *testing.T) {
	for _, body := range []string{
		"not xml at all",
		`<?xml version="1.0"?><Envelope><Body></Body></Envelope>`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		c := NewClient(&config.Config{RBIURL: srv.URL}, testLogger())
		_, err := c.RepoRate()
		assert.Error(t, err)
		srv.Close()
	}
}
