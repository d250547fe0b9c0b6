package analysis

import (
	"ProjectPoseForm/pkg/response"
	"net/http"
)

var (
	ErrInvalidMessage    = response.NewError(http.StatusBadRequest, "invalid analysis message")
	ErrEngineStopped     = response.NewError(http.StatusServiceUnavailable, "analysis engine is not running")
	ErrInternalEvaluator = response.NewError(http.StatusInternalServerError, "evaluator failed")
)
