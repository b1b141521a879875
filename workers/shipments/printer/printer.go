// Package printer sends label PDFs to the fulfillment label printer.
package printer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Printer interface {
	PrintLabel(ctx context.Context, labelUrl string) error
}

type Client struct {
	printerUrl string
	client     *http.Client
}

func NewClient(printerUrl string) *Client {
	return &Client{
		printerUrl: strings.TrimRight(printerUrl, "/") + "/rollo",
		client:     &http.Client{Timeout: 20 * time.Second},
	}
}

// PrintLabel posts the label URL to the printer service. Printing is not
// idempotency-guarded; a retried pass may print the same label twice.
func (c *Client) PrintLabel(ctx context.Context, labelUrl string) error {
	if strings.TrimSpace(labelUrl) == "" {
		return nil
	}

	encoded, err := json.Marshal(labelUrl)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.printerUrl, strings.NewReader(string(encoded)))
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("printer returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}
