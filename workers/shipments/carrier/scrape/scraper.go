package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Result is what can be pulled off a courier's public tracking page.
type Result struct {
	Status        string
	StatusDetails string
	DeliveredTime *time.Time
}

var statusMap = map[string]string{
	"Shipment Notification": "PRE_TRANSIT",
	"Received":              "TRANSIT",
	"Out for Delivery":      "TRANSIT",
	"Delivered":             "DELIVERED",
}

var deliveredAtPattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*-\s*(\d{1,2}:\d{2}:\d{2}\s*[AP]M)`)

// Scraper extracts tracking state from the public tracking pages of couriers
// the gateway has no API coverage for.
type Scraper struct {
	logger *zap.Logger
}

func NewScraper(logger *zap.Logger) *Scraper {
	return &Scraper{logger}
}

// Track loads the tracking page and maps its progress indicator onto the
// gateway's status vocabulary.
func (s *Scraper) Track(trackingUrl string) (*Result, error) {
	if strings.TrimSpace(trackingUrl) == "" {
		return nil, fmt.Errorf("no tracking url to scrape")
	}

	result := &Result{}
	title := ""

	c := colly.NewCollector()

	wg := &sync.WaitGroup{}
	wg.Add(1)

	c.OnHTML(".multi-step.numbered li.current", func(e *colly.HTMLElement) {
		title = e.ChildText(".wrap > p.title")
	})

	c.OnHTML("td", func(e *colly.HTMLElement) {
		text := strings.ReplaceAll(e.Text, " ", " ") // normalize &nbsp;
		text = strings.TrimSpace(text)

		if !strings.Contains(text, "The package is delivered.") {
			return
		}
		result.StatusDetails = "The package is delivered."

		matches := deliveredAtPattern.FindStringSubmatch(text)
		if len(matches) == 3 {
			combined := fmt.Sprintf("%s %s", matches[1], matches[2])
			parsed, err := time.ParseInLocation("2006-01-02 3:04:05 PM", combined, time.Local)
			if err != nil {
				s.logger.Error("Failed to parse delivery time", zap.String("datetime", combined), zap.Error(err))
				return
			}
			result.DeliveredTime = &parsed
		}
	})

	c.OnScraped(func(r *colly.Response) {
		wg.Done()
	})

	if err := c.Visit(trackingUrl); err != nil {
		return nil, err
	}

	wg.Wait()

	result.Status = mapStatus(title)
	return result, nil
}

func mapStatus(title string) string {
	status, ok := statusMap[title]
	if !ok {
		return "UNKNOWN"
	}
	return status
}
