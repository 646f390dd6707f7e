package domain

import (
	"sync"
	"testing"
)

func TestParticipantDeltas(t *testing.T) {
	p := NewParticipant("alice", 10000, 50)

	p.OnFundsChange(-2000)
	p.OnPositionChange(2)
	p.OnFundsChange(500)
	p.OnPositionChange(-1)

	funds, position := p.Balances()
	if funds != 8500 {
		t.Errorf("funds = %d, want 8500", funds)
	}
	if position != 51 {
		t.Errorf("position = %d, want 51", position)
	}
}

func TestParticipantConcurrentReads(t *testing.T) {
	p := NewParticipant("bob", 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.OnFundsChange(1)
		}()
		go func() {
			defer wg.Done()
			p.Balances()
		}()
	}
	wg.Wait()

	funds, _ := p.Balances()
	if funds != 10 {
		t.Errorf("funds = %d, want 10", funds)
	}
}
