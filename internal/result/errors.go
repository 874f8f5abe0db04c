package result

import "errors"

var errNilFailure = errors.New("result: failure constructed with nil error")
