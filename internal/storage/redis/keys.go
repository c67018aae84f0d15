package redis

import (
	"fmt"

	"github.com/superawesomeme/La-Palabra-Negra/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "palabra"

// sessionKey returns the Redis key for a Session
func sessionKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}
