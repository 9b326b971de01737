package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"mm-tickets/monitoring"
)

const (
	// TicketCodeAlphabet is the 36-symbol alphabet for ticket codes.
	TicketCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// ManualRefAlphabet drops the visually ambiguous 0, O, 1 and I so a
	// reference code can be read back over the phone without mistakes.
	ManualRefAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	TicketCodePrefix = "MM-"

	TicketCodeLength = 6
	ManualRefLength  = 4
)

// retryWarnThreshold is the attempt count past which collision retries
// are logged and counted. Hitting it at all suggests the code space is
// close to exhausted for its alphabet and length.
const retryWarnThreshold = 5

// ExistsFunc reports whether a candidate code is already present in the
// relevant uniqueness domain.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// GenerateCode draws length characters uniformly at random from alphabet.
func GenerateCode(alphabet string, length int) (string, error) {
	code := make([]byte, length)
	if _, err := rand.Read(code); err != nil {
		return "", err
	}
	for i := 0; i < length; i++ {
		code[i] = alphabet[int(code[i])%len(alphabet)]
	}
	return string(code), nil
}

// GenerateUniqueCode draws candidate codes until one is free in the
// given uniqueness domain. The retry loop is unbounded but terminates as
// long as the context is alive and the space is not exhausted; attempts
// past retryWarnThreshold are logged and counted so exhaustion shows up
// in metrics long before the loop becomes a problem.
//
// The existence probe and the eventual insert are not atomic. Callers
// must treat a uniqueness-constraint violation at insert time as a
// signal to call GenerateUniqueCode again, not as a fatal error.
func GenerateUniqueCode(ctx context.Context, domain, alphabet string, length int, prefix string, exists ExistsFunc) (string, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		raw, err := GenerateCode(alphabet, length)
		if err != nil {
			return "", fmt.Errorf("generating %s code: %w", domain, err)
		}
		code := prefix + raw

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking %s code uniqueness: %w", domain, err)
		}
		if !taken {
			return code, nil
		}

		if attempt >= retryWarnThreshold {
			slog.Warn("code generator collision",
				"domain", domain,
				"attempt", attempt,
				"length", length,
			)
			monitoring.TrackCodeRetry(domain)
		}
	}
}
