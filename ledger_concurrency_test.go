package papertrade

import (
	"sync"
	"testing"
	"time"
)

// TestAccount_ConcurrentOperations checks that readers only ever see whole
// operations. Shares are bought and valued at the same price, so a complete
// snapshot always has a zero profit/loss.
func TestAccount_ConcurrentOperations(t *testing.T) {
	const (
		writers = 8
		rounds  = 50
	)
	a := NewAccount("")
	oracle := pricedAt(1)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if err := a.Deposit(M(10)); err != nil {
					t.Errorf("Deposit() failed: %v", err)
				}
				if err := a.Buy("AAPL", 5, oracle); err != nil {
					t.Errorf("Buy() failed: %v", err)
				}
			}
		}()
	}

	done := make(chan struct{})
	var readers sync.WaitGroup
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if v := a.Valuation(oracle); !v.ProfitLoss.IsZero() {
					t.Errorf("observed a partial operation: %+v", v)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(done)
	readers.Wait()

	if n := len(a.Transactions()); n != 2*writers*rounds {
		t.Errorf("%d transactions, want %d", n, 2*writers*rounds)
	}
	if h, _ := a.Holding("AAPL"); h.Quantity != 5*writers*rounds {
		t.Errorf("holding = %v shares, want %v", h.Quantity, 5*writers*rounds)
	}
	if !a.Cash().Equal(M(5 * writers * rounds)) {
		t.Errorf("cash = %v, want %v", a.Cash(), 5*writers*rounds)
	}
	checkInvariants(t, a)
}

// TestAccount_SlowOracleDoesNotBlockReaders checks that reads complete while
// a buy waits on its price.
func TestAccount_SlowOracleDoesNotBlockReaders(t *testing.T) {
	a := NewAccount("")
	if err := a.Deposit(M(1000)); err != nil {
		t.Fatal(err)
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := PriceFunc(func(string) (Money, error) {
		close(entered)
		<-release
		return M(10), nil
	})

	bought := make(chan error)
	go func() { bought <- a.Buy("AAPL", 1, slow) }()
	<-entered

	read := make(chan Money)
	go func() { read <- a.Cash() }()
	select {
	case cash := <-read:
		if !cash.Equal(M(1000)) {
			t.Errorf("cash during the buy = %v, want 1000", cash)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Cash() blocked while the oracle was pricing")
	}
	if len(a.Transactions()) != 1 {
		t.Error("the pending buy is already visible")
	}

	close(release)
	if err := <-bought; err != nil {
		t.Fatalf("Buy() failed: %v", err)
	}
	if !a.Cash().Equal(M(990)) {
		t.Errorf("cash = %v, want 990", a.Cash())
	}
}
