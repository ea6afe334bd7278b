package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	pkglogger "github.com/marktrack/marktrack-backend/pkg/logger"
)

// ImageServePath is the route prefix under which extracted images are
// served back to the editor
const ImageServePath = "/api/v1/image/"

// ImageExtractor rewrites embedded binary attachments into external
// references before content is stored. Failures are per-attachment and
// non-fatal: a failing image is left inline and logged.
type ImageExtractor interface {
	Rewrite(ctx context.Context, delta json.RawMessage) json.RawMessage
}

type imageExtractor struct {
	store  ObjectStore
	bucket string
}

// NewImageExtractor creates an ImageExtractor backed by object storage
func NewImageExtractor(store ObjectStore, bucket string) ImageExtractor {
	return &imageExtractor{store: store, bucket: bucket}
}

// Rewrite walks the delta's ops and replaces base64 data-URI images
// with references into the image bucket. The original delta is returned
// untouched when it cannot be parsed or re-serialized.
func (e *imageExtractor) Rewrite(ctx context.Context, delta json.RawMessage) json.RawMessage {
	var doc map[string]interface{}
	if err := json.Unmarshal(delta, &doc); err != nil {
		return delta
	}

	ops, ok := doc["ops"].([]interface{})
	if !ok {
		return delta
	}

	changed := false
	for _, raw := range ops {
		op, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		insert, ok := op["insert"].(map[string]interface{})
		if !ok {
			continue
		}
		img, ok := insert["image"].(string)
		if !ok || !strings.HasPrefix(img, "data:image") {
			continue
		}

		ref, err := e.upload(ctx, img)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("image extraction failed, leaving attachment inline")
			continue
		}
		insert["image"] = ref
		changed = true
	}

	if !changed {
		return delta
	}

	rewritten, err := json.Marshal(doc)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("rewritten delta marshal failed, keeping original")
		return delta
	}
	return rewritten
}

// upload decodes one data-URI image and stores it under a unique name
func (e *imageExtractor) upload(ctx context.Context, dataURI string) (string, error) {
	header, payload, found := strings.Cut(dataURI, ",")
	if !found {
		return "", errMalformedDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", err
	}

	ext := "png"
	switch {
	case strings.Contains(header, "jpeg"), strings.Contains(header, "jpg"):
		ext = "jpg"
	case strings.Contains(header, "gif"):
		ext = "gif"
	case strings.Contains(header, "webp"):
		ext = "webp"
	}

	filename := uuid.New().String() + "." + ext
	if err := e.store.Put(ctx, e.bucket, filename, data, "image/"+ext); err != nil {
		return "", err
	}

	pkglogger.GetLogger().Info().Str("filename", filename).Int("bytes", len(data)).Msg("image extracted to object storage")
	return ImageServePath + filename, nil
}

var errMalformedDataURI = errors.New("malformed data URI")
