package branchwatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	checkFunctionMissingMessageConstant = "check function not configured"
	scheduleStartedLogMessageConstant   = "periodic branch checks started"
	scheduleDisabledLogMessageConstant  = "periodic branch checks disabled"
	scheduleStoppedLogMessageConstant   = "periodic branch checks stopped"
	logFieldIntervalConstant            = "interval"
	logFieldIntervalNameConstant        = "interval_name"
)

// ErrCheckFunctionNotConfigured indicates the controller was built without a check function.
var ErrCheckFunctionNotConfigured = errors.New(checkFunctionMissingMessageConstant)

// CheckFunction runs one branch check.
type CheckFunction func(executionContext context.Context)

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	Ticks() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every interval.
type TickerFactory func(interval time.Duration) Ticker

// NewSystemTicker wraps time.Ticker.
func NewSystemTicker(interval time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(interval)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (ticker systemTicker) Ticks() <-chan time.Time {
	return ticker.ticker.C
}

func (ticker systemTicker) Stop() {
	ticker.ticker.Stop()
}

// ControllerDependencies enumerates collaborators required by the controller.
type ControllerDependencies struct {
	Check         CheckFunction
	TickerFactory TickerFactory
	Logger        *zap.Logger
}

// Controller owns the periodic check schedule. At most one schedule is live at a time.
// Each tick dispatches its check on a separate goroutine with no overlap guard; a check
// that has started runs to completion even when the schedule is stopped.
type Controller struct {
	check         CheckFunction
	tickerFactory TickerFactory
	logger        *zap.Logger

	mutex          sync.Mutex
	cancelSchedule context.CancelFunc
	scheduleDone   chan struct{}
	interval       time.Duration
}

// NewController constructs a Controller from the provided dependencies.
func NewController(dependencies ControllerDependencies) (*Controller, error) {
	if dependencies.Check == nil {
		return nil, ErrCheckFunctionNotConfigured
	}

	tickerFactory := dependencies.TickerFactory
	if tickerFactory == nil {
		tickerFactory = NewSystemTicker
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{check: dependencies.Check, tickerFactory: tickerFactory, logger: logger}, nil
}

// Start replaces any running schedule. A disabled setting leaves no schedule running.
// The schedule ends when Stop is called, Start is called again, or executionContext ends.
func (controller *Controller) Start(executionContext context.Context, settings Settings) {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	controller.stopLocked()

	if !settings.Enabled {
		controller.logger.Debug(scheduleDisabledLogMessageConstant)
		return
	}

	interval := settings.CheckInterval.Duration()
	scheduleContext, cancelSchedule := context.WithCancel(executionContext)
	scheduleDone := make(chan struct{})
	ticker := controller.tickerFactory(interval)

	controller.cancelSchedule = cancelSchedule
	controller.scheduleDone = scheduleDone
	controller.interval = interval

	go controller.runSchedule(scheduleContext, ticker, scheduleDone)

	controller.logger.Info(
		scheduleStartedLogMessageConstant,
		zap.Duration(logFieldIntervalConstant, interval),
		zap.String(logFieldIntervalNameConstant, string(settings.CheckInterval)),
	)
}

// Stop ends the running schedule, if any, and waits for its tick loop to exit.
func (controller *Controller) Stop() {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()

	if controller.stopLocked() {
		controller.logger.Debug(scheduleStoppedLogMessageConstant)
	}
}

// TriggerCheck dispatches one check immediately, independent of any schedule.
func (controller *Controller) TriggerCheck(executionContext context.Context) {
	go controller.check(context.WithoutCancel(executionContext))
}

// Running reports whether a schedule is live.
func (controller *Controller) Running() bool {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	return controller.runningLocked()
}

// Interval returns the period of the live schedule, or zero when none is running.
func (controller *Controller) Interval() time.Duration {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if !controller.runningLocked() {
		return 0
	}
	return controller.interval
}

func (controller *Controller) runningLocked() bool {
	if controller.scheduleDone == nil {
		return false
	}
	select {
	case <-controller.scheduleDone:
		return false
	default:
		return true
	}
}

func (controller *Controller) stopLocked() bool {
	if controller.cancelSchedule == nil {
		return false
	}

	controller.cancelSchedule()
	<-controller.scheduleDone

	controller.cancelSchedule = nil
	controller.scheduleDone = nil
	controller.interval = 0
	return true
}

func (controller *Controller) runSchedule(scheduleContext context.Context, ticker Ticker, scheduleDone chan<- struct{}) {
	defer close(scheduleDone)
	defer ticker.Stop()

	for {
		select {
		case <-scheduleContext.Done():
			return
		case <-ticker.Ticks():
			if scheduleContext.Err() != nil {
				return
			}
			go controller.check(context.WithoutCancel(scheduleContext))
		}
	}
}
