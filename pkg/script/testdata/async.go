package pets

import (
	"context"
	"errors"
)

func Default(ctx context.Context) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("no context")
	}
	return map[string]any{"count": 2}, nil
}
