package exclusion

// Option applies a configuration option to the Window.
type Option func(*Window)

// WithMaxSize sets how many ids the window holds before evicting the oldest.
// Non-positive sizes are ignored.
func WithMaxSize(maxSize int) Option {
	return func(w *Window) {
		if maxSize > 0 {
			w.maxSize = maxSize
		}
	}
}
