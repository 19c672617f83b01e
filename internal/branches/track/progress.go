package track

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

const (
	// ReportHeaderConstant precedes the outcome lines of a batch.
	ReportHeaderConstant = "Track status:"
	// ReportLineIndentConstant prefixes every outcome line.
	ReportLineIndentConstant = "  "
)

// Progress observes a tracking batch. Implementations must not influence control flow.
type Progress interface {
	RepositoriesStarted(total int)
	RepositoriesCompleted()
	RepositoryStarted(info RepositoryInfo)
	RepositoryInfo(info RepositoryInfo, message string)
	RepositoryCompleted(info RepositoryInfo, outcome Outcome)
	RepositoryFailed(info RepositoryInfo, outcome Outcome)
}

// NoopProgress discards every event.
type NoopProgress struct{}

func (NoopProgress) RepositoriesStarted(int) {}
func (NoopProgress) RepositoriesCompleted() {}
func (NoopProgress) RepositoryStarted(RepositoryInfo) {}
func (NoopProgress) RepositoryInfo(RepositoryInfo, string) {}
func (NoopProgress) RepositoryCompleted(RepositoryInfo, Outcome) {}
func (NoopProgress) RepositoryFailed(RepositoryInfo, Outcome) {}

type terminalEvent struct {
	info    RepositoryInfo
	outcome Outcome
	failed  bool
}

// OrderedProgress serializes events from concurrent workers and forwards
// completion events to its delegate in manifest index order.
type OrderedProgress struct {
	mutex     sync.Mutex
	delegate  Progress
	nextIndex int
	pending   map[int]terminalEvent
}

// NewOrderedProgress wraps delegate so it can be shared by concurrent workers.
func NewOrderedProgress(delegate Progress) *OrderedProgress {
	if delegate == nil {
		delegate = NoopProgress{}
	}
	return &OrderedProgress{delegate: delegate, pending: make(map[int]terminalEvent)}
}

// RepositoriesStarted resets the replay cursor and forwards the event.
func (progress *OrderedProgress) RepositoriesStarted(total int) {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	progress.nextIndex = 0
	progress.pending = make(map[int]terminalEvent, total)
	progress.delegate.RepositoriesStarted(total)
}

// RepositoriesCompleted drains any buffered events before forwarding.
func (progress *OrderedProgress) RepositoriesCompleted() {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()

	remainingIndexes := make([]int, 0, len(progress.pending))
	for index := range progress.pending {
		remainingIndexes = append(remainingIndexes, index)
	}
	sort.Ints(remainingIndexes)
	for _, index := range remainingIndexes {
		progress.forward(progress.pending[index])
		delete(progress.pending, index)
	}
	progress.delegate.RepositoriesCompleted()
}

// RepositoryStarted forwards the event immediately.
func (progress *OrderedProgress) RepositoryStarted(info RepositoryInfo) {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	progress.delegate.RepositoryStarted(info)
}

// RepositoryInfo forwards the message immediately.
func (progress *OrderedProgress) RepositoryInfo(info RepositoryInfo, message string) {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	progress.delegate.RepositoryInfo(info, message)
}

// RepositoryCompleted buffers the event until every earlier entry has been forwarded.
func (progress *OrderedProgress) RepositoryCompleted(info RepositoryInfo, outcome Outcome) {
	progress.enqueue(terminalEvent{info: info, outcome: outcome})
}

// RepositoryFailed buffers the event until every earlier entry has been forwarded.
func (progress *OrderedProgress) RepositoryFailed(info RepositoryInfo, outcome Outcome) {
	progress.enqueue(terminalEvent{info: info, outcome: outcome, failed: true})
}

func (progress *OrderedProgress) enqueue(event terminalEvent) {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()

	progress.pending[event.info.Index] = event
	for {
		nextEvent, ready := progress.pending[progress.nextIndex]
		if !ready {
			return
		}
		delete(progress.pending, progress.nextIndex)
		progress.forward(nextEvent)
		progress.nextIndex++
	}
}

func (progress *OrderedProgress) forward(event terminalEvent) {
	if event.failed {
		progress.delegate.RepositoryFailed(event.info, event.outcome)
		return
	}
	progress.delegate.RepositoryCompleted(event.info, event.outcome)
}

// LineProgress prints the header and one unstyled line per outcome.
type LineProgress struct {
	NoopProgress
	writer io.Writer
}

// NewLineProgress constructs a LineProgress writing to writer.
func NewLineProgress(writer io.Writer) *LineProgress {
	if writer == nil {
		writer = io.Discard
	}
	return &LineProgress{writer: writer}
}

// RepositoriesStarted prints the report header.
func (progress *LineProgress) RepositoriesStarted(int) {
	fmt.Fprintln(progress.writer, ReportHeaderConstant)
}

// RepositoryCompleted prints the outcome line.
func (progress *LineProgress) RepositoryCompleted(_ RepositoryInfo, outcome Outcome) {
	fmt.Fprintln(progress.writer, ReportLineIndentConstant+outcome.Line())
}

// RepositoryFailed prints the outcome line.
func (progress *LineProgress) RepositoryFailed(_ RepositoryInfo, outcome Outcome) {
	fmt.Fprintln(progress.writer, ReportLineIndentConstant+outcome.Line())
}
