package scpi

import (
	"github.com/stretchr/testify/mock"
)

// MockHandler is a testify-based mock implementation of the Handler interface
// for use in unit tests.
type MockHandler struct {
	mock.Mock
}

var _ Handler = (*MockHandler)(nil)

func NewMockHandler() *MockHandler {
	return &MockHandler{}
}

func (m *MockHandler) OnStep(result StepResult) {
	m.Called(result)
}

func (m *MockHandler) OnProgress(executed, total int) {
	m.Called(executed, total)
}

func (m *MockHandler) OnTerminal(state RunState, err error) {
	m.Called(state, err)
}
