package s3

// ClientConfig holds S3 client configuration.
type ClientConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for custom endpoints like MinIO
	AccessKeyID     string
	SecretAccessKey string
}

// ClientOption configures the client.
type ClientOption func(*ClientConfig)

// WithBucket sets the bucket name.
func WithBucket(bucket string) ClientOption {
	return func(c *ClientConfig) {
		c.Bucket = bucket
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) ClientOption {
	return func(c *ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom endpoint. Path-style addressing is enabled
// when an endpoint is set, as required by MinIO-compatible stores.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithCredentials sets static credentials. When empty, the default AWS
// credential chain is used.
func WithCredentials(accessKeyID, secretAccessKey string) ClientOption {
	return func(c *ClientConfig) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
	}
}
