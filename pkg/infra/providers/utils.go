package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/common"
)

// FormatInstructions renders instruction rules as a bulleted block. Blank
// rules are skipped and an empty list renders as "".
func FormatInstructions(instr []string) string {
	var b strings.Builder
	for _, rule := range instr {
		if strings.TrimSpace(rule) == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("[Instructions]\n")
		}
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteByte('\n')
	}
	return b.String()
}

// ResponseID derives a completion id from the request id on ctx, falling
// back to a timestamp.
func ResponseID(ctx context.Context, prefix string) string {
	if requestID := ctx.Value(common.RequestIDContextKey); requestID != nil {
		return fmt.Sprintf("%s-%v", prefix, requestID)
	}
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
