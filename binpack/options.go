package binpack

type options struct {
	chunkSize     int
	maxChunkSize  int
	progress      ProgressCallback
	progressTotal int64
}

func defaultOptions() options {
	return options{
		chunkSize:     SuggestedChunkSize,
		maxChunkSize:  MaxChunkSize,
		progressTotal: -1,
	}
}

// Option configures a Reader or a Writer.
type Option func(*options)

// WithChunkSize sets the body size at which a Writer emits a chunk. Values
// below one stem are raised to it and values above half of MaxChunkSize are
// capped, so a chunk always has room for one more whole chain.
func WithChunkSize(n int) Option {
	return func(o *options) {
		switch {
		case n < stemSize+stemCountSize:
			n = stemSize + stemCountSize
		case n > MaxChunkSize/2:
			n = MaxChunkSize / 2
		}
		o.chunkSize = n
	}
}

// WithMaxChunkSize lowers the largest chunk a Reader accepts.
func WithMaxChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 && n <= MaxChunkSize {
			o.maxChunkSize = n
		}
	}
}

// WithProgress makes a Reader report consumed bytes against total.
func WithProgress(total int64, fn ProgressCallback) Option {
	return func(o *options) {
		o.progress = fn
		o.progressTotal = total
	}
}
