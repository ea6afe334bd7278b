package content

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
)

func TestValidateDelta(t *testing.T) {
	t.Run("accepts an object with ops", func(t *testing.T) {
		assert.NoError(t, ValidateDelta(json.RawMessage(`{"ops":[{"insert":"hi"}]}`)))
		assert.NoError(t, ValidateDelta(json.RawMessage(`{"ops":[]}`)))
	})

	t.Run("rejects everything else", func(t *testing.T) {
		cases := []string{
			`"a string"`,
			`[{"insert":"hi"}]`,
			`{"not_ops":true}`,
			`42`,
			`null`,
			`not json`,
		}
		for _, c := range cases {
			assert.ErrorIs(t, ValidateDelta(json.RawMessage(c)), common.ErrInvalidContent, c)
		}
	})
}

func TestSize(t *testing.T) {
	delta := json.RawMessage(`{"ops":[{"insert":"hello"}]}`)
	assert.Equal(t, len(delta)+len("<p>hello</p>"), Size(delta, "<p>hello</p>"))
	assert.Equal(t, len(delta), Size(delta, ""))
}

func TestSelectStorageType(t *testing.T) {
	t.Run("threshold is inclusive", func(t *testing.T) {
		assert.Equal(t, domain.StorageDatabase, SelectStorageType(499, 500))
		assert.Equal(t, domain.StorageDatabase, SelectStorageType(500, 500))
		assert.Equal(t, domain.StorageObject, SelectStorageType(501, 500))
	})

	t.Run("same input always picks the same tier", func(t *testing.T) {
		delta := json.RawMessage(`{"ops":[{"insert":"` + strings.Repeat("a", 100) + `"}]}`)
		size := Size(delta, "")
		first := SelectStorageType(size, 500)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, SelectStorageType(size, 500))
		}
	})
}
