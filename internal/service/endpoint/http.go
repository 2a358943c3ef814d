package endpoint

import (
	"context"
	"fmt"
	"time"

	xhttp "IrisServe/pkg/http"
)

// HTTPInvoker scores batches against a self-hosted scoring service that
// accepts CSV rows over plain HTTP, for local development and
// non-SageMaker deployments.
type HTTPInvoker struct {
	url    string
	client *xhttp.Client
}

// NewHTTPInvoker creates an invoker posting to the given URL.
func NewHTTPInvoker(url string, timeout time.Duration) (*HTTPInvoker, error) {
	if url == "" {
		return nil, fmt.Errorf("endpoint url is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPInvoker{
		url:    url,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}, nil
}

// Invoke posts one CSV payload and returns the raw response body.
func (h *HTTPInvoker) Invoke(ctx context.Context, payload string) (string, error) {
	var body []byte
	err := h.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    h.url,
		Headers: map[string]string{
			"Content-Type": contentTypeCSV,
			"Accept":       contentTypeCSV,
		},
		Body: payload,
	}, &body)
	if err != nil {
		return "", xhttp.BadGatewayErrorf("invoke endpoint %s", h.url).WithError(err)
	}
	return string(body), nil
}

// Name returns the endpoint URL.
func (h *HTTPInvoker) Name() string {
	return h.url
}
