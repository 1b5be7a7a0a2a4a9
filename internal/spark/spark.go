// Package spark carries the connection settings for an external Spark
// service instance used by the payment server's configuration wiring.
package spark

import "errors"

// ErrMissingConnectionString is returned when an ExternalSpark is
// constructed without a connection string.
var ErrMissingConnectionString = errors.New("spark: connection string is required")

// AccessKeyService is implemented by external services that expose a
// connection string carrying their access key.
type AccessKeyService interface {
	ConnectionString() string
}

// ExternalSpark holds the connection string of a Spark instance. The
// value is set at construction and never mutated.
type ExternalSpark struct {
	connectionString string
}

// NewExternalSpark creates an ExternalSpark. It fails immediately if the
// connection string is absent rather than at first use.
func NewExternalSpark(connectionString string) (*ExternalSpark, error) {
	if connectionString == "" {
		return nil, ErrMissingConnectionString
	}
	return &ExternalSpark{connectionString: connectionString}, nil
}

// ConnectionString returns the configured connection string.
func (s *ExternalSpark) ConnectionString() string {
	return s.connectionString
}
