package schedtest

import (
	"github.com/osprey-rtos/rtcommon/sched"
	"github.com/stretchr/testify/mock"
)

// Mock is a stretchr mock for sched.Interface.  In addition to implementing
// the interface and supplying mock behavior, other methods that make mocking
// a bit easier are supplied.
type Mock struct {
	mock.Mock
}

var _ sched.Interface = (*Mock)(nil)

func (m *Mock) VerifyTCB(t *sched.TCB) bool {
	return m.Called(t).Bool(0)
}

func (m *Mock) OnVerifyTCB(t *sched.TCB, alive bool) *mock.Call {
	return m.On("VerifyTCB", t).Return(alive)
}

func (m *Mock) SetPriority(t *sched.TCB, p sched.Priority) {
	m.Called(t, p)
}

func (m *Mock) OnSetPriority(t *sched.TCB, p sched.Priority) *mock.Call {
	return m.On("SetPriority", t, p)
}

func (m *Mock) Reprioritize(t *sched.TCB, p sched.Priority) {
	m.Called(t, p)
}

func (m *Mock) OnReprioritize(t *sched.TCB, p sched.Priority) *mock.Call {
	return m.On("Reprioritize", t, p)
}

func (m *Mock) CurrentTask() *sched.TCB {
	first := m.Called().Get(0)
	if first == nil {
		return nil
	}

	return first.(*sched.TCB)
}

func (m *Mock) OnCurrentTask(t *sched.TCB) *mock.Call {
	return m.On("CurrentTask").Return(t)
}

func (m *Mock) InInterruptContext() bool {
	return m.Called().Bool(0)
}

func (m *Mock) OnInInterruptContext(v bool) *mock.Call {
	return m.On("InInterruptContext").Return(v)
}
