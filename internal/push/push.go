// Package push provides the push-notification transport capability.
// The notification engine depends on the Multicaster interface only, so the
// FCM-backed implementation can be swapped out in tests.
package push

import "context"

// MulticastLimit is the maximum number of device tokens the transport accepts
// in a single multicast call (FCM constraint).
const MulticastLimit = 500

// Message is a push notification payload addressed to a set of device tokens.
type Message struct {
	Title  string
	Body   string
	Data   map[string]string
	Tokens []string
}

// BatchResult is the per-call delivery outcome reported by the transport.
type BatchResult struct {
	SuccessCount int
	FailureCount int
}

// Multicaster delivers one message to up to MulticastLimit device tokens.
type Multicaster interface {
	SendMulticast(ctx context.Context, msg Message) (BatchResult, error)
}
