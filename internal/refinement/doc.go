// Package refinement drives the Riemann engine through a sequence of
// refinement levels. It maps animation frames to subdivision counts,
// precomputes levels concurrently, reassembles them in frame order and hands
// them to rendering sinks. Presentation is decoupled through the
// ProgressReporter, ResultPresenter and FrameSink interfaces.
package refinement
