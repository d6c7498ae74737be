package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	apperrors "github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/validator"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// checkItemFields applies the write rules shared by item creation, updates
// and imports: a title is required and a url, when set, must be a menu link.
func checkItemFields(id, title, url string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.NewBadRequest(fmt.Sprintf("item %q: title is required", id))
	}
	if url = strings.TrimSpace(url); url != "" && !validator.IsMenuLink(url) {
		return apperrors.NewBadRequest(fmt.Sprintf("item %q: url %q must be a path, a #fragment or an http, https or mailto URL", id, url))
	}
	return nil
}

func normaliseKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func decodeJSONMap(value datatypes.JSON) map[string]any {
	if len(value) == 0 {
		return nil
	}
	var result map[string]any
	if err := json.Unmarshal(value, &result); err != nil {
		return nil
	}
	return result
}

func encodeJSONMap(value map[string]any) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
