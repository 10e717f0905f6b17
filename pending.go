package jsonstream

// Pending is the eventual result of DeserializeAsync.
type Pending struct {
	done  chan struct{}
	value interface{}
	err   error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(value interface{}, err error) {
	p.value, p.err = value, err
	close(p.done)
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the result is available.
func (p *Pending) Wait() (interface{}, error) {
	<-p.done
	return p.value, p.err
}
