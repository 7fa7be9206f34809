package pets

import "errors"

func Default() (any, error) {
	return nil, errors.New("no pets today")
}
