package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func dataURI(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestRewrite_ExtractsEmbeddedImages(t *testing.T) {
	store := new(MockObjectStore)
	extractor := NewImageExtractor(store, "images")

	png := []byte{0x89, 0x50, 0x4e, 0x47}
	delta, _ := json.Marshal(map[string]interface{}{
		"ops": []interface{}{
			map[string]interface{}{"insert": "some text"},
			map[string]interface{}{"insert": map[string]interface{}{"image": dataURI("image/png", png)}},
		},
	})

	var storedName string
	store.On("Put", "images", mock.AnythingOfType("string"), png, "image/png").
		Run(func(args mock.Arguments) {
			storedName = args.String(1)
		}).
		Return(nil)

	rewritten := extractor.Rewrite(context.Background(), delta)

	var doc map[string]interface{}
	assert.NoError(t, json.Unmarshal(rewritten, &doc))
	ops := doc["ops"].([]interface{})
	assert.Equal(t, "some text", ops[0].(map[string]interface{})["insert"])

	img := ops[1].(map[string]interface{})["insert"].(map[string]interface{})["image"].(string)
	assert.Equal(t, ImageServePath+storedName, img)
	assert.True(t, strings.HasSuffix(storedName, ".png"))
	store.AssertExpectations(t)
}

func TestRewrite_DetectsImageTypeFromHeader(t *testing.T) {
	cases := []struct {
		mime string
		ext  string
	}{
		{"image/jpeg", ".jpg"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"image/png", ".png"},
	}

	for _, tc := range cases {
		t.Run(tc.mime, func(t *testing.T) {
			store := new(MockObjectStore)
			extractor := NewImageExtractor(store, "images")

			delta, _ := json.Marshal(map[string]interface{}{
				"ops": []interface{}{
					map[string]interface{}{"insert": map[string]interface{}{"image": dataURI(tc.mime, []byte{1, 2, 3})}},
				},
			})

			var storedName string
			store.On("Put", "images", mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("string")).
				Run(func(args mock.Arguments) {
					storedName = args.String(1)
				}).
				Return(nil)

			extractor.Rewrite(context.Background(), delta)
			assert.True(t, strings.HasSuffix(storedName, tc.ext), "expected %s suffix, got %s", tc.ext, storedName)
		})
	}
}

func TestRewrite_UploadFailureLeavesImageInline(t *testing.T) {
	store := new(MockObjectStore)
	extractor := NewImageExtractor(store, "images")

	uri := dataURI("image/png", []byte{1, 2, 3})
	delta, _ := json.Marshal(map[string]interface{}{
		"ops": []interface{}{
			map[string]interface{}{"insert": map[string]interface{}{"image": uri}},
		},
	})

	store.On("Put", "images", mock.AnythingOfType("string"), mock.Anything, "image/png").
		Return(errors.New("storage offline"))

	rewritten := extractor.Rewrite(context.Background(), delta)

	var doc map[string]interface{}
	assert.NoError(t, json.Unmarshal(rewritten, &doc))
	img := doc["ops"].([]interface{})[0].(map[string]interface{})["insert"].(map[string]interface{})["image"].(string)
	assert.Equal(t, uri, img)
}

func TestRewrite_IgnoresExternalImagesAndText(t *testing.T) {
	store := new(MockObjectStore)
	extractor := NewImageExtractor(store, "images")

	delta, _ := json.Marshal(map[string]interface{}{
		"ops": []interface{}{
			map[string]interface{}{"insert": "plain text"},
			map[string]interface{}{"insert": map[string]interface{}{"image": "https://example.com/pic.png"}},
		},
	})

	rewritten := extractor.Rewrite(context.Background(), delta)
	assert.JSONEq(t, string(delta), string(rewritten))

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRewrite_UnparseableDeltaReturnedUntouched(t *testing.T) {
	store := new(MockObjectStore)
	extractor := NewImageExtractor(store, "images")

	delta := json.RawMessage(`not json at all`)
	rewritten := extractor.Rewrite(context.Background(), delta)
	assert.Equal(t, delta, rewritten)
}
