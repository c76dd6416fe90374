// Package jobs provides the scheduled background tasks of the simulation.
//
// Jobs are built on github.com/robfig/cron/v3 and are individually
// cancellable: Stop takes effect before the next tick fires, so a simulation
// shuts down within one interval without relying on process interrupts.
//
// # Available Jobs
//
// 1. ChaosInjectionJob - rolls the chaos dice at a configured interval and
// probability, injecting truck failures and route blockages.
//
// 2. RecoveryJob - scans for failed trucks still carrying packages every
// second and runs the rerouting pipeline for each.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(chaosJob, recoveryJob)
//	jobManager.StartAll()
//	defer jobManager.StopAll()
package jobs
