package notify

// Notice is a single user-facing notification.
type Notice struct {
	Text    string
	IsError bool
}

// Notifier is the side-channel used by services to surface messages to the
// user. Implementations must not block the caller.
type Notifier interface {
	Success(text string)
	Error(text string)
}

// Feed is a channel-backed Notifier drained by the UI. Notices posted while
// the buffer is full are dropped rather than blocking a mutation.
type Feed struct {
	ch chan Notice
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan Notice, 32)}
}

func (f *Feed) Success(text string) { f.post(Notice{Text: text}) }
func (f *Feed) Error(text string)   { f.post(Notice{Text: text, IsError: true}) }

func (f *Feed) post(n Notice) {
	select {
	case f.ch <- n:
	default:
	}
}

// Next returns the channel the UI reads notices from.
func (f *Feed) Next() <-chan Notice {
	return f.ch
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
