package health

import "context"

// Pinger checks availability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CredentialCounter reports how many directory credentials are configured.
type CredentialCounter interface {
	Credentials() int
}
