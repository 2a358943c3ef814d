package endpoint

import (
	"context"
	"fmt"

	xhttp "IrisServe/pkg/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

const contentTypeCSV = "text/csv"

// SageMakerInvoker invokes a deployed SageMaker endpoint by name. The
// endpoint's address and model version are owned by the deployment
// environment; this component only knows the name.
type SageMakerInvoker struct {
	client *sagemakerruntime.Client
	name   string
}

// NewSageMakerInvoker creates an invoker bound to one endpoint name.
func NewSageMakerInvoker(ctx context.Context, name, region string) (*SageMakerInvoker, error) {
	if name == "" {
		return nil, fmt.Errorf("endpoint name is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SageMakerInvoker{
		client: sagemakerruntime.NewFromConfig(awsCfg),
		name:   name,
	}, nil
}

// Invoke sends one CSV payload and returns the raw response body. One call
// per batch, no retry; transport failures surface as 502-class errors.
func (s *SageMakerInvoker) Invoke(ctx context.Context, payload string) (string, error) {
	out, err := s.client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(s.name),
		ContentType:  aws.String(contentTypeCSV),
		Accept:       aws.String(contentTypeCSV),
		Body:         []byte(payload),
	})
	if err != nil {
		return "", xhttp.BadGatewayErrorf("invoke endpoint %s", s.name).WithError(err)
	}
	return string(out.Body), nil
}

// Name returns the endpoint name.
func (s *SageMakerInvoker) Name() string {
	return s.name
}
