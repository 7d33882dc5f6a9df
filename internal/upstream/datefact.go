package upstream

import (
	"context"
	"fmt"
	"time"

	"weather-lookup/internal/models"
)

type numbersDateResponse struct {
	Text string `json:"text"`
	Year int    `json:"year"`
}

// FetchDateFact retrieves a "this day in history" fact for the given date.
func (c *Client) FetchDateFact(ctx context.Context, day time.Time) (*models.DateFact, error) {
	factURL := fmt.Sprintf("%s/%d/%d/date?json", c.cfg.NumbersBaseURL, int(day.Month()), day.Day())

	var resp numbersDateResponse
	if err := c.GetJSON(ctx, "numbersapi", factURL, &resp); err != nil {
		return nil, err
	}

	return &models.DateFact{Text: &resp.Text, Year: &resp.Year}, nil
}
