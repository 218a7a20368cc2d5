package usecase

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/dto/request"

	"github.com/google/uuid"
)

func TestRedeemCreditsBalanceAndBenefits(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "ana")
	rc := seedCode(store, "WELCOME-2024", 100, func(c *entity.RechargeCode) {
		c.Benefits = map[string]any{"ad_free": true}
	})

	resp, err := svc.Credit.Redeem(bg, userID, "  welcome-2024 ")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if resp.CreditsAdded != 100 || resp.NewBalance != 100 {
		t.Fatalf("got credits_added=%d new_balance=%d, want 100/100", resp.CreditsAdded, resp.NewBalance)
	}
	if resp.Benefits["ad_free"] != true {
		t.Fatalf("benefits = %v", resp.Benefits)
	}

	if got := store.balances[userID]; got != 100 {
		t.Errorf("balance = %d, want 100", got)
	}
	if len(store.transactions) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(store.transactions))
	}
	entry := store.transactions[0]
	if entry.Amount != 100 || entry.BalanceAfter != 100 || entry.Type != entity.TransactionRedemption {
		t.Errorf("unexpected ledger entry %+v", entry)
	}
	if entry.ReferenceID == nil || *entry.ReferenceID != rc.ID {
		t.Errorf("ledger entry should reference the code")
	}
	if got := store.codes[rc.ID].CurrentUses; got != 1 {
		t.Errorf("current_uses = %d, want 1", got)
	}

	user := store.users[userID]
	if !user.IsPremium || user.PremiumBenefits["ad_free"] != true {
		t.Errorf("premium not applied: %+v", user)
	}
	if _, ok := store.achievements[achievementKey{userID, entity.AchievementFirstRedemption}]; !ok {
		t.Errorf("first_redemption not unlocked")
	}
}

func TestRedeemKeepsPlainUsersNonPremium(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "ben")
	seedCode(store, "PLAIN", 25, nil)
	store.balances[userID] = 10

	resp, err := svc.Credit.Redeem(bg, userID, "plain")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if resp.NewBalance != 35 {
		t.Errorf("new balance = %d, want 35", resp.NewBalance)
	}
	if resp.Benefits == nil || len(resp.Benefits) != 0 {
		t.Errorf("benefits should be an empty object, got %v", resp.Benefits)
	}
	if store.users[userID].IsPremium {
		t.Errorf("code without benefits must not grant premium")
	}
}

func TestRedeemSecondAttemptRejected(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "cleo")
	seedCode(store, "ONCE", 50, nil)

	if _, err := svc.Credit.Redeem(bg, userID, "ONCE"); err != nil {
		t.Fatalf("first Redeem: %v", err)
	}
	_, err := svc.Credit.Redeem(bg, userID, "once")
	if !errors.Is(err, ErrCodeAlreadyRedeemed) {
		t.Fatalf("second Redeem err = %v, want ErrCodeAlreadyRedeemed", err)
	}

	if got := store.balances[userID]; got != 50 {
		t.Errorf("balance = %d, want 50", got)
	}
	if len(store.transactions) != 1 {
		t.Errorf("ledger entries = %d, want 1", len(store.transactions))
	}
}

func TestRedeemRejections(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		mutate func(c *entity.RechargeCode)
		want   error
	}{
		{"empty", "   ", nil, ErrCodeRequired},
		{"unknown", "NOPE", nil, ErrCodeNotFound},
		{"inactive", "CODE", func(c *entity.RechargeCode) { c.IsActive = false }, ErrCodeInactive},
		{"expired", "CODE", func(c *entity.RechargeCode) { c.ExpiresAt = ptr(time.Now().Add(-time.Hour)) }, ErrCodeExpired},
		{"usage limit", "CODE", func(c *entity.RechargeCode) { c.MaxUses = ptr(2); c.CurrentUses = 2 }, ErrCodeUsageLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, store, _ := newTestService(t)
			userID := seedUser(t, store, "dana")
			seedCode(store, "CODE", 10, tt.mutate)

			_, err := svc.Credit.Redeem(bg, userID, tt.code)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if store.balances[userID] != 0 || len(store.transactions) != 0 || len(store.redemptions) != 0 {
				t.Errorf("rejected redemption left state behind")
			}
		})
	}
}

func TestRedeemRollsBackOnFailure(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "eli")
	rc := seedCode(store, "VIP", 40, func(c *entity.RechargeCode) {
		c.Benefits = map[string]any{"tier": "gold"}
	})
	store.fail["Credit.CreateTransaction"] = errors.New("connection reset")

	_, err := svc.Credit.Redeem(bg, userID, "VIP")
	if err == nil || err.Error() != "failed to redeem code" {
		t.Fatalf("err = %v, want generic failure", err)
	}

	if got := store.balances[userID]; got != 0 {
		t.Errorf("balance = %d after rollback, want 0", got)
	}
	if len(store.redemptions) != 0 {
		t.Errorf("redemption row survived rollback")
	}
	if got := store.codes[rc.ID].CurrentUses; got != 0 {
		t.Errorf("current_uses = %d after rollback, want 0", got)
	}
	if store.users[userID].IsPremium {
		t.Errorf("premium applied despite rollback")
	}

	delete(store.fail, "Credit.CreateTransaction")
	if _, err := svc.Credit.Redeem(bg, userID, "VIP"); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}
}

func TestRedeemConcurrentAttemptsBySameUser(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "fay")
	seedCode(store, "RACE", 30, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Credit.Redeem(bg, userID, "RACE"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("successes = %d, want exactly 1", successes)
	}
	if got := store.balances[userID]; got != 30 {
		t.Errorf("balance = %d, want 30", got)
	}
}

func TestRedeemUsageCapUnderConcurrency(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	rc := seedCode(store, "LIMITED", 5, func(c *entity.RechargeCode) { c.MaxUses = ptr(3) })

	users := make([]uuid.UUID, 8)
	for i := range users {
		users[i] = seedUser(t, store, "user"+string(rune('a'+i)))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, id := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Credit.Redeem(bg, id, "LIMITED")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrCodeUsageLimit) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 3 {
		t.Errorf("successes = %d, want 3", successes)
	}
	if got := store.codes[rc.ID].CurrentUses; got != 3 {
		t.Errorf("current_uses = %d, want 3", got)
	}
}

func TestBalanceAndTransactions(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "gus")

	bal, err := svc.Credit.GetBalance(bg, userID)
	if err != nil || bal.Balance != 0 {
		t.Fatalf("balance without row = %v, %v; want 0", bal, err)
	}

	seedCode(store, "ONE", 10, nil)
	seedCode(store, "TWO", 20, nil)
	for _, code := range []string{"ONE", "TWO"} {
		if _, err := svc.Credit.Redeem(bg, userID, code); err != nil {
			t.Fatalf("Redeem %s: %v", code, err)
		}
	}

	txs, err := svc.Credit.GetTransactions(bg, userID, &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if txs.Pagination.Total != 2 || len(txs.Data) != 2 {
		t.Fatalf("got %d transactions (total %d), want 2", len(txs.Data), txs.Pagination.Total)
	}
	if txs.Data[0].BalanceAfter != 30 {
		t.Errorf("newest entry balance_after = %d, want 30", txs.Data[0].BalanceAfter)
	}
}

func TestCreateCode(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	adminID := seedUser(t, store, "root")

	created, err := svc.Credit.CreateCode(bg, adminID, &request.CreateCodeRequest{CreditAmount: 100})
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}
	if !regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`).MatchString(created.Code) {
		t.Errorf("generated code %q has the wrong shape", created.Code)
	}
	if !created.IsActive {
		t.Errorf("new codes start active")
	}

	named, err := svc.Credit.CreateCode(bg, adminID, &request.CreateCodeRequest{Code: " summer-sale ", CreditAmount: 5})
	if err != nil {
		t.Fatalf("CreateCode named: %v", err)
	}
	if named.Code != "SUMMER-SALE" {
		t.Errorf("code = %q, want SUMMER-SALE", named.Code)
	}

	if _, err := svc.Credit.CreateCode(bg, adminID, &request.CreateCodeRequest{Code: "SUMMER-SALE", CreditAmount: 5}); err == nil {
		t.Errorf("duplicate code should be rejected")
	}

	past := time.Now().Add(-time.Minute)
	if _, err := svc.Credit.CreateCode(bg, adminID, &request.CreateCodeRequest{CreditAmount: 5, ExpiresAt: &past}); err == nil {
		t.Errorf("code expiring in the past should be rejected")
	}
}

func TestDeactivateCode(t *testing.T) {
	svc, _, store, _ := newTestService(t)
	userID := seedUser(t, store, "hal")
	rc := seedCode(store, "STOP", 10, nil)

	if err := svc.Credit.DeactivateCode(bg, rc.ID); err != nil {
		t.Fatalf("DeactivateCode: %v", err)
	}
	if _, err := svc.Credit.Redeem(bg, userID, "STOP"); !errors.Is(err, ErrCodeInactive) {
		t.Errorf("redeeming a deactivated code: err = %v", err)
	}
	if err := svc.Credit.DeactivateCode(bg, uuid.New()); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("unknown code: err = %v", err)
	}
}
