//go:build !opencl

package main

import (
	"errors"

	"feedbackfx/frame"
	"feedbackfx/softfx"
)

type openCLStage struct{}

func newOpenCLStage(variant string) (*openCLStage, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (s *openCLStage) Step(dst, src *softfx.Frame, in frame.Inputs) error {
	return errors.New("OpenCL stage unavailable")
}

func (s *openCLStage) Close() {}

func (s *openCLStage) DeviceName() string { return "" }
