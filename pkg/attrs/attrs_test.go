package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "gatehouse/pkg/domain"
)

func TestExtractString(t *testing.T) {
	list := []any{"visitor_id", id.VisitorID("vis-1"), "tray", "T-001", "count", 3, "dangling"}

	assert.Equal(t, "vis-1", ExtractString(list, "visitor_id"))
	assert.Equal(t, "T-001", ExtractString(list, "tray"))
	assert.Empty(t, ExtractString(list, "count"), "non-string values are ignored")
	assert.Empty(t, ExtractString(list, "dangling"), "key without value")
	assert.Empty(t, ExtractString(list, "missing"))
}
