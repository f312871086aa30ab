package cache

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"task-manager.com/task-manager/internal/constants"
	"task-manager.com/task-manager/internal/search"
)

// TaskListKey derives the cache key of one filtered task listing. Listings
// without a search term use the plain per-status key; search terms are folded
// in as a BLAKE3 digest of their caseless form, so terms that search alike
// share an entry and distinct ones never do.
func TaskListKey(userID, status, term string) string {
	if status == "" {
		status = constants.StatusAll
	}

	key := fmt.Sprintf("user_%s_tasks_%s", userID, status)
	if term == "" {
		return key
	}

	return key + "_search_" + searchDigest(term)
}

// TaskListKeys returns the fixed per-status keys of userID.
func TaskListKeys(userID string) []string {
	keys := []string{TaskListKey(userID, constants.StatusAll, "")}
	for _, status := range constants.TaskStatuses {
		keys = append(keys, TaskListKey(userID, string(status), ""))
	}
	return keys
}

// TaskListPrefix covers every listing key of userID, search-qualified ones
// included.
func TaskListPrefix(userID string) string {
	return fmt.Sprintf("user_%s_tasks_", userID)
}

func searchDigest(term string) string {
	sum := blake3.Sum256([]byte(search.Fold(term)))
	return hex.EncodeToString(sum[:16])
}
