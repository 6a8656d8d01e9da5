package model

// Board keeps the subscriber's url → view mapping, newest submission first.
// It is not safe for concurrent use: it belongs to the subscriber's own
// execution context and is mutated only after events were marshaled there.
type Board struct {
	order []*JobView
	byURL map[string]*JobView
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{byURL: make(map[string]*JobView)}
}

// Add registers a freshly submitted job. A repeated URL gets a new row and
// takes over the URL mapping; the older row keeps its last state.
func (b *Board) Add(job DownloadJob) *JobView {
	v := NewJobView(job)
	b.order = append([]*JobView{v}, b.order...)
	b.byURL[job.URL] = v
	return v
}

// Get returns the current view for url
func (b *Board) Get(url string) (*JobView, bool) {
	v, ok := b.byURL[url]
	return v, ok
}

// Views returns rows newest first
func (b *Board) Views() []*JobView {
	out := make([]*JobView, len(b.order))
	copy(out, b.order)
	return out
}

// Len returns the number of rows
func (b *Board) Len() int {
	return len(b.order)
}

// Apply folds an event into the view of its URL. Events for URLs that were
// never added are ignored and reported with ok=false.
func (b *Board) Apply(ev JobEvent) (*JobView, bool) {
	v, ok := b.byURL[ev.JobURL()]
	if !ok {
		return nil, false
	}

	switch e := ev.(type) {
	case TitleResolved:
		v.Title = cleanText(e.Title)
	case Progress:
		v.Percent = clampPercent(e.Percent)
		if v.State == JobStatePending {
			v.Status = string(JobStateDownloading)
		}
		if v.State != JobStateCompleted {
			v.State = JobStateDownloading
		}
	case StatusChanged:
		v.Status = cleanText(e.Message)
		switch {
		case e.IsError():
			// metadata errors are not terminal; a later event moves the state on
			v.State = JobStateError
		case e.Message == StatusConverting:
			v.State = JobStateConverting
		case e.Message == StatusComplete:
			v.State = JobStateCompleted
		}
	case Finished:
		v.OutputPath = e.FilePath
		v.Percent = 100
		v.State = JobStateCompleted
		v.Status = StatusComplete
	}
	return v, true
}

// SetFileSize records the size of a finished file
func (b *Board) SetFileSize(url string, size int64) {
	if v, ok := b.byURL[url]; ok {
		v.FileSize = size
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
