package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Initialize configures the generator with the given node id. Calling
// it again after the first successful call is a no-op, so every process
// keeps a single node identity for its lifetime.
func Initialize(nodeID int64) error {
	mu.Lock()
	defer mu.Unlock()

	if node != nil {
		return nil
	}

	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("failed to create snowflake node %d: %w", nodeID, err)
	}
	node = n
	return nil
}

// GenerateID returns a new unique id as a string. Falls back to node 1
// when Initialize was never called.
func GenerateID() string {
	mu.Lock()
	if node == nil {
		mu.Unlock()
		_ = Initialize(1)
		mu.Lock()
	}
	n := node
	mu.Unlock()

	return n.Generate().String()
}
