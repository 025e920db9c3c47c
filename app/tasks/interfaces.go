package tasks

// TaskSchedulerInterface is what the HTTP layer and main need from the
// scheduler: lifecycle control and ad-hoc task submission.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
