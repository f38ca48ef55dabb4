package rbi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/creditbridge/scoring-service/internal/config"
)

// Client fetches the central-bank policy repo rate used to anchor the
// recommended interest bands. The feed is best-effort: lookups are cached
// and a failed fetch degrades to the static bands, never failing an
// assessment.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger

	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
}

const cacheTTL = time.Hour

// NewClient initializes a repo-rate client.
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RBIURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildSOAPRequest creates a SOAP request for the policy repo rate series.
func (c *Client) buildSOAPRequest() string {
	fromDate := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	toDate := time.Now().Format("2006-01-02")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<PolicyRate xmlns="http://rates.rbi.org.in/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</PolicyRate>
			</soap12:Body>
		</soap12:Envelope>`, fromDate, toDate)
}

// sendRequest sends the SOAP request to the rates feed.
func (c *Client) sendRequest(soapRequest string) ([]byte, error) {
	req, err := http.NewRequest("POST", c.url, bytes.NewBuffer([]byte(soapRequest)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://rates.rbi.org.in/PolicyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("rates feed XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts the most recent rate from the feed.
func (c *Client) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %v", err)
	}

	rateElements := doc.FindElements("//PolicyRate/RR")
	if len(rateElements) == 0 {
		return 0, fmt.Errorf("no rate data found in XML")
	}

	// Latest observation comes first.
	rateElement := rateElements[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	var rate float64
	if _, err := fmt.Sscanf(rateElement.Text(), "%f", &rate); err != nil {
		return 0, fmt.Errorf("failed to parse rate: %v", err)
	}

	return rate, nil
}

// RepoRate returns the current policy repo rate, serving a cached value for
// up to an hour. Returns an error when no feed is configured or reachable.
// The lock is held across the fetch: concurrent cache misses wait for the
// first caller's result instead of each hitting the feed.
func (c *Client) RepoRate() (float64, error) {
	if c.url == "" {
		return 0, fmt.Errorf("rates feed not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rate > 0 && time.Since(c.fetchedAt) < cacheTTL {
		return c.rate, nil
	}

	body, err := c.sendRequest(c.buildSOAPRequest())
	if err != nil {
		return 0, err
	}

	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}

	c.rate = rate
	c.fetchedAt = time.Now()

	c.log.Infof("Retrieved policy repo rate: %.2f%%", rate)
	return rate, nil
}
