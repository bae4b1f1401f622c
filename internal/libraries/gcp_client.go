package libraries

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type Clients struct {
	GCS    *storage.Client
	Bucket string
}

var clients *Clients

func GetClients() *Clients {
	return clients
}

// NewClients builds the Google Cloud clients from a base64 encoded service
// account JSON.
func NewClients(ctx context.Context, encodedCredentials, bucket string) (*Clients, error) {
	if encodedCredentials == "" {
		return nil, fmt.Errorf("GCP_SERVICE_ACCOUNT_CREDENTIALS not set")
	}
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET not set")
	}

	decoded, err := base64.StdEncoding.DecodeString(encodedCredentials)
	if err != nil {
		return nil, fmt.Errorf("failed to decode service account json: %w", err)
	}

	gcsClient, err := storage.NewClient(ctx, option.WithCredentialsJSON(decoded))
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	clients = &Clients{
		GCS:    gcsClient,
		Bucket: bucket,
	}
	return clients, nil
}

func (c *Clients) Close() {
	c.GCS.Close()
}
