package value

import "errors"

var errEnvBoundObjectMissing = errors.New("value: object-bound environment's bound object is missing")
