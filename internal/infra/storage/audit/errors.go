package audit

import "errors"

var (
	ErrBuildQuery = errors.New("audit.repository: failed to build query")
	ErrExecQuery  = errors.New("audit.repository: failed to execute query")
	ErrEncodeData = errors.New("audit.repository: failed to encode data")
)
