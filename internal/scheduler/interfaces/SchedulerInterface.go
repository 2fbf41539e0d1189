package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Prime() error
}
