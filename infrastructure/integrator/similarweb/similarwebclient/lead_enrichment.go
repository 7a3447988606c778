package similarwebclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	similarwebdomain "github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

func (c *SimilarwebClient) GetLeadEnrichment(ctx context.Context, req domain.EnrichmentRequest) (*similarwebdomain.LeadEnrichmentResponse, error) {
	params := url.Values{}
	params.Set("api_key", req.APIKey)
	params.Set("start_date", req.DateRange.Start.FirstDay())
	params.Set("end_date", req.DateRange.End.FirstDay())
	params.Set("country", req.Country)
	params.Set("main_domain_only", strconv.FormatBool(req.MainDomainOnly))
	params.Set("format", "json")
	params.Set("show_verified", "false")

	endpoint := fmt.Sprintf("%s/v1/website/%s/lead-enrichment/all?%s", c.baseURL, url.PathEscape(req.Domain), params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response similarwebdomain.LeadEnrichmentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrapf(domain.ErrAPI, "similarweb: error decoding lead enrichment response: %v", err)
	}

	if strings.EqualFold(response.Meta.Status, "error") {
		message := response.Meta.ErrorMessage
		return nil, &similarwebdomain.APIError{
			StatusCode: http.StatusOK,
			Message:    message,
			Kind:       classify(http.StatusOK, message),
		}
	}

	return &response, nil
}
