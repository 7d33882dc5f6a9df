package upstream

import (
	"context"
	"fmt"
	"net/url"

	"weather-lookup/internal/models"
)

type wikiGeosearchResponse struct {
	Query struct {
		Geosearch []struct {
			Title string `json:"title"`
		} `json:"geosearch"`
	} `json:"query"`
}

type wikiSummaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// FetchNearbyWiki finds the nearest Wikipedia article to a coordinate and
// returns its summary. An empty payload (all nulls) is returned when no
// article is within range or the summary lookup fails.
func (c *Client) FetchNearbyWiki(ctx context.Context, lat, lon float64) (*models.WikiSummary, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "geosearch")
	params.Set("gscoord", fmt.Sprintf("%f|%f", lat, lon))
	params.Set("gsradius", "10000")
	params.Set("gslimit", "1")
	params.Set("format", "json")

	var search wikiGeosearchResponse
	if err := c.GetJSON(ctx, "wikipedia", c.cfg.WikipediaBaseURL+"?"+params.Encode(), &search); err != nil {
		return nil, err
	}

	if len(search.Query.Geosearch) == 0 {
		return &models.WikiSummary{}, nil
	}
	title := search.Query.Geosearch[0].Title

	var summary wikiSummaryResponse
	summaryURL := c.cfg.WikiSummaryURL + "/" + url.PathEscape(title)
	if err := c.GetJSON(ctx, "wikipedia", summaryURL, &summary); err != nil {
		// A found article with an unavailable summary still yields the title.
		return &models.WikiSummary{Title: &title}, nil
	}

	result := &models.WikiSummary{
		Title:   &summary.Title,
		Extract: &summary.Extract,
	}
	if summary.ContentURLs.Desktop.Page != "" {
		result.URL = &summary.ContentURLs.Desktop.Page
	}
	if summary.Thumbnail != nil {
		result.Thumbnail = &summary.Thumbnail.Source
	}

	return result, nil
}
