package jobs

// JobManager coordinates the background jobs of a running service instance.
type JobManager struct {
	chaosInjectionJob *ChaosInjectionJob
	recoveryJob       *RecoveryJob
}

// NewJobManager groups the chaos and recovery jobs behind one start/stop pair.
func NewJobManager(chaosJob *ChaosInjectionJob, recoveryJob *RecoveryJob) *JobManager {
	return &JobManager{
		chaosInjectionJob: chaosJob,
		recoveryJob:       recoveryJob,
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() {
	jm.chaosInjectionJob.Start()
	jm.recoveryJob.Start()
}

// StopAll stops all scheduled jobs.
func (jm *JobManager) StopAll() {
	jm.recoveryJob.Stop()
	jm.chaosInjectionJob.Stop()
}
