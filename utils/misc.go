package utils

import "sync"

// Subprocesses tracks background goroutines so owners can block on
// shutdown until all of them have returned.
type Subprocesses struct {
	wg sync.WaitGroup
}

func (s *Subprocesses) Go(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Subprocesses) Wait() {
	s.wg.Wait()
}
