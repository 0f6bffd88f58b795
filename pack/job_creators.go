package pack

type JobGenerator interface {
	CreateWorker() (func(id int, jobs chan *TileJob, results chan *TileResult), error)
	CreateJobs(jobs chan *TileJob) error
}
