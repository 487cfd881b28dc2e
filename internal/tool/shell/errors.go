package shell

import "errors"

var ErrInvalidTimeout = errors.New("timeout must be a positive number of seconds")
