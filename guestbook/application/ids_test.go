package application

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessageID_FormatAndUniqueness(t *testing.T) {
	req := require.New(t)
	at := time.Unix(1767225600, 0)
	pattern := regexp.MustCompile(`^msg_1767225600_[0-9a-f]{8}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id := NewMessageID(at)
		req.Regexp(pattern, id)
		_, dup := seen[id]
		req.False(dup, "duplicated id %s", id)
		seen[id] = struct{}{}
	}
}
