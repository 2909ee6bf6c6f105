package cpu

import "errors"

var (
	ErrNoSceneData = errors.New("cpu tracer: no scene data uploaded")
	ErrNoCamera    = errors.New("cpu tracer: no camera defined")
)
