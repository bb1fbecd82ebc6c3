package clip

// headlessBackend is a no-op clipboard backend for environments without a
// display server (headless Linux servers, containers, etc.).
// It never produces Watch events and silently discards writes.
type headlessBackend struct {
	watchCh chan string
}

func newHeadless() *headlessBackend {
	return &headlessBackend{watchCh: make(chan string)}
}

// Headless returns the no-op backend.
func Headless() Backend { return newHeadless() }

func (b *headlessBackend) Name() string          { return "headless (no-op)" }
func (b *headlessBackend) Read() (string, error) { return "", nil }
func (b *headlessBackend) Write(_ string) error  { return nil }
func (b *headlessBackend) Watch() <-chan string  { return b.watchCh }
func (b *headlessBackend) Close()                {}
