package publish

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

const absentValue = "<none>"

// ProgressLine is printed before any validation.
func ProgressLine(filename string) string {
	return fmt.Sprintf("Processing file %s 🧙", filename)
}

// ReportLine renders the success line for post.
func ReportLine(post *interfaces.PersistedPost, dryRun bool) string {
	id, createdAt := absentValue, absentValue
	if post != nil && post.ID != nil {
		id = strconv.FormatInt(*post.ID, 10)
	}
	if post != nil && post.CreatedAt != nil {
		createdAt = post.CreatedAt.Format(time.RFC3339Nano)
	}

	if dryRun {
		return fmt.Sprintf("Dry run: post id=%s created_at=%s rolled back", id, createdAt)
	}
	return fmt.Sprintf("Inserted post id=%s created_at=%s", id, createdAt)
}

// missingFields lists the returned columns the database left empty.
func missingFields(post *interfaces.PersistedPost) []string {
	var missing []string
	if post == nil || post.ID == nil {
		missing = append(missing, "id")
	}
	if post == nil || post.CreatedAt == nil {
		missing = append(missing, "created_at")
	}
	return missing
}
