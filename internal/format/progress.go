package format

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// ProgressState tracks the completion fraction of a fixed number of tasks,
// for example the refinement levels being precomputed.
type ProgressState struct {
	mu         sync.Mutex
	progresses []float64
	numTasks   int
}

// NewProgressState creates a state for numTasks tasks, all at zero.
func NewProgressState(numTasks int) *ProgressState {
	numTasks = max(numTasks, 0)
	return &ProgressState{progresses: make([]float64, numTasks), numTasks: numTasks}
}

// Update records the progress of task index, clamped to [0, 1]. Out of
// range indices are ignored.
func (s *ProgressState) Update(index int, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= s.numTasks {
		return
	}
	s.progresses[index] = math.Min(math.Max(value, 0), 1)
}

// CalculateAverage returns the mean progress across all tasks.
func (s *ProgressState) CalculateAverage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numTasks == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.progresses {
		sum += p
	}
	return sum / float64(s.numTasks)
}

// maxETA caps estimates so that a stalled rate does not print absurd values.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest rate sample in the moving average.
const etaSmoothing = 0.3

// ProgressWithETA extends ProgressState with a smoothed completion rate used
// to estimate the time remaining.
type ProgressWithETA struct {
	*ProgressState
	numTasks     int
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA creates a tracker for numTasks tasks starting now.
func NewProgressWithETA(numTasks int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numTasks),
		numTasks:      numTasks,
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records progress for one task and returns the new average
// together with the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the current estimate, or zero while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	secs := remaining / p.progressRate
	if secs > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// FormatETA renders an estimate compactly: "45s", "2m30s", "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m, s := int(eta.Minutes()), int(eta.Seconds())%60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h, m := int(eta.Hours()), int(eta.Minutes())%60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar draws a bar of length cells, clamping progress to [0, 1].
func ProgressBar(progress float64, length int) string {
	progress = math.Min(math.Max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA combines the bar, a percentage and the ETA.
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), progress*100, FormatETA(eta))
}

// FormatNumberString inserts thousands separators into a decimal string.
func FormatNumberString(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
