package xlsparser

import (
	"time"

	"go.uber.org/zap"
)

// Pipeline stage names reported to an Observer.
const (
	StageLoadMapping  = "load_mapping"
	StageLoadGrid     = "load_grid"
	StageLocateAnchor = "locate_anchor"
	StageExtract      = "extract"
	StageReconcile    = "reconcile"
	StageAggregate    = "aggregate"
	StageResample     = "resample"
	StageWrite        = "write"
)

// Observer is notified when a pipeline stage finishes.
type Observer interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(stage string, elapsed time.Duration, err error)

// ObserveStage calls f.
func (f ObserverFunc) ObserveStage(stage string, elapsed time.Duration, err error) {
	f(stage, elapsed, err)
}

// LogObserver logs stage timings.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver returns an Observer logging to logger.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// ObserveStage logs at debug level, or at warn level when the stage failed.
func (o *LogObserver) ObserveStage(stage string, elapsed time.Duration, err error) {
	if err != nil {
		o.logger.Warn("Stage failed",
			zap.String("stage", stage),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	o.logger.Debug("Stage finished",
		zap.String("stage", stage),
		zap.Duration("elapsed", elapsed))
}

// StageTiming is one recorded stage.
type StageTiming struct {
	Stage   string
	Elapsed time.Duration
	Err     error
}

// StageTimings records every stage in order. Not safe for concurrent use.
type StageTimings struct {
	Stages []StageTiming
}

// ObserveStage appends the stage.
func (t *StageTimings) ObserveStage(stage string, elapsed time.Duration, err error) {
	t.Stages = append(t.Stages, StageTiming{Stage: stage, Elapsed: elapsed, Err: err})
}

// Names returns the recorded stage names in order.
func (t *StageTimings) Names() []string {
	names := make([]string, len(t.Stages))
	for i, s := range t.Stages {
		names[i] = s.Stage
	}
	return names
}

// timed runs fn and reports its duration; fn's error is returned unchanged.
func timed(obs Observer, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	obs.ObserveStage(stage, time.Since(start), err)
	return err
}

// timedStep is timed for stages that cannot fail.
func timedStep(obs Observer, stage string, fn func()) {
	start := time.Now()
	fn()
	obs.ObserveStage(stage, time.Since(start), nil)
}
