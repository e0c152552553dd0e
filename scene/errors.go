package scene

import "errors"

var (
	ErrSceneCompiled    = errors.New("scene: scene already compiled")
	ErrInvalidGenerator = errors.New("scene: invalid generator parameters")
)
