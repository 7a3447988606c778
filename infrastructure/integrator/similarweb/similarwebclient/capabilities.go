package similarwebclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	similarwebdomain "github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

// GetUserCapabilities consulta a chave sem consumir créditos
func (c *SimilarwebClient) GetUserCapabilities(ctx context.Context, apiKey string) (*similarwebdomain.UserCapabilities, error) {
	params := url.Values{}
	params.Set("api_key", apiKey)

	endpoint := fmt.Sprintf("%s/user-capabilities?%s", c.baseURL, params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response similarwebdomain.UserCapabilities
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrapf(domain.ErrAPI, "similarweb: error decoding user capabilities: %v", err)
	}

	return &response, nil
}
