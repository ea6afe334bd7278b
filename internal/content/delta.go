package content

import (
	"encoding/json"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
)

// EmptyDelta is the inline default for documents with no stored content
var EmptyDelta = json.RawMessage(`{}`)

// ValidateDelta checks that raw is a JSON object carrying an "ops"
// field, the shape the editor submits. Anything else is rejected before
// any mutation happens.
func ValidateDelta(raw json.RawMessage) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return common.ErrInvalidContent
	}
	if _, ok := obj["ops"]; !ok {
		return common.ErrInvalidContent
	}
	return nil
}

// Size returns the serialized content size used for tier selection and
// the document's size_bytes field: the delta JSON plus the derived HTML.
func Size(delta json.RawMessage, html string) int {
	return len(delta) + len(html)
}

// SelectStorageType decides content placement from the serialized size.
// Pure function of the configured threshold; it is evaluated fresh on
// every save, so documents migrate tiers in both directions.
func SelectStorageType(sizeBytes, maxInline int) string {
	if sizeBytes <= maxInline {
		return domain.StorageDatabase
	}
	return domain.StorageObject
}
