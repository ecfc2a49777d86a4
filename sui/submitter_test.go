package sui

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mr-tron/base58"
)

var testDigest = base58.Encode(bytes.Repeat([]byte{0x42}, 32))

type fakeLedger struct {
	coins *CoinPage
	// morePages holds coin pages after the first, keyed by cursor.
	morePages map[string]*CoinPage
	coinsErr error
	price    uint64
	object   *ObjectData
	execResp *TransactionBlockResponse
	execErr  error

	coinOwner string
	cursors   []string
	executed  int
	execBytes string
	execSigs  []string
}

func (f *fakeLedger) GetCoins(_ context.Context, owner string, cursor *string) (*CoinPage, error) {
	f.coinOwner = owner
	if f.coinsErr != nil {
		return nil, f.coinsErr
	}
	if cursor == nil {
		return f.coins, nil
	}
	f.cursors = append(f.cursors, *cursor)
	page, ok := f.morePages[*cursor]
	if !ok {
		return nil, errors.New("unknown cursor " + *cursor)
	}
	return page, nil
}

func (f *fakeLedger) GetReferenceGasPrice(context.Context) (uint64, error) {
	return f.price, nil
}

func (f *fakeLedger) GetObject(_ context.Context, id string) (*ObjectData, error) {
	if f.object != nil {
		return f.object, nil
	}
	return &ObjectData{ObjectID: id, Version: "9", Digest: testDigest, Owner: json.RawMessage(`{"Shared":{"initial_shared_version":7}}`)}, nil
}

func (f *fakeLedger) ExecuteTransactionBlock(_ context.Context, txBytes string, sigs []string) (*TransactionBlockResponse, error) {
	f.executed++
	f.execBytes = txBytes
	f.execSigs = sigs
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.execResp, nil
}

type fakeSigner struct {
	addr   Address
	signed [][]byte
}

func (s *fakeSigner) Address() Address { return s.addr }

func (s *fakeSigner) SignTransaction(txBytes []byte) (string, error) {
	s.signed = append(s.signed, txBytes)
	return "c2lnbmF0dXJl", nil
}

var adminAddr = Address{0: 0xad}

func fundedLedger() *fakeLedger {
	return &fakeLedger{
		price: 1000,
		coins: &CoinPage{Data: []Coin{
			{CoinObjectID: "0x100", Version: "3", Digest: testDigest, Balance: "6000000"},
			{CoinObjectID: "0x101", Version: "4", Digest: testDigest, Balance: "6000000"},
		}},
		execResp: &TransactionBlockResponse{
			Digest:  "TxDigest1",
			Effects: &TransactionEffects{Status: ExecutionStatus{Status: "success"}},
			Events:  []Event{event(stampType, `{"stamp_id":"0xabc","visitor_number":"3"}`)},
		},
	}
}

func testCall(t *testing.T) *CheckInCall {
	t.Helper()
	call, err := NewBuilder(BuilderConfig{PackageID: testPackage}).CheckIn(validParams())
	if err != nil {
		t.Fatal(err)
	}
	return call
}

func newTestSubmitter(l Ledger, s Signer) *Submitter {
	return NewSubmitter(l, s, SubmitterConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSponsorSignsWithUserAsSender(t *testing.T) {
	ledger := fundedLedger()
	signer := &fakeSigner{addr: adminAddr}
	call := testCall(t)

	res, err := newTestSubmitter(ledger, signer).Sponsor(context.Background(), call)
	if err != nil {
		t.Fatalf("Sponsor: %v", err)
	}
	if ledger.executed != 0 {
		t.Fatal("sponsor-only mode must not submit")
	}
	if res.SponsorSignature != "c2lnbmF0dXJl" || res.Stamped != nil {
		t.Errorf("result = %+v", res)
	}
	if ledger.coinOwner != adminAddr.String() {
		t.Errorf("gas coins fetched for %s", ledger.coinOwner)
	}

	raw, err := base64.StdEncoding.DecodeString(res.TxBytes)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, signer.signed[0]) {
		t.Error("returned bytes differ from signed bytes")
	}
	// The tail is sender, gas payment, gas owner, price, budget, expiration.
	tail := raw[len(raw)-(8+8+1):]
	owner := raw[len(raw)-(32+8+8+1) : len(raw)-len(tail)]
	if !bytes.Equal(owner, adminAddr[:]) {
		t.Errorf("gas owner = %x", owner)
	}
	if !bytes.Contains(raw, call.Recipient[:]) {
		t.Error("user address is not the sender")
	}
}

func TestExecuteParsesStampEvent(t *testing.T) {
	ledger := fundedLedger()
	signer := &fakeSigner{addr: adminAddr}

	res, err := newTestSubmitter(ledger, signer).Execute(context.Background(), testCall(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ledger.executed != 1 {
		t.Fatalf("executed %d times", ledger.executed)
	}
	if len(ledger.execSigs) != 1 || ledger.execSigs[0] != "c2lnbmF0dXJl" {
		t.Errorf("signatures = %v", ledger.execSigs)
	}
	if res.Digest != "TxDigest1" {
		t.Errorf("digest = %s", res.Digest)
	}
	if res.Stamped == nil || res.Stamped.StampID != "0xabc" || res.Stamped.VisitorNumber != "3" {
		t.Fatalf("stamped = %+v", res.Stamped)
	}
	if res.EventErr != nil {
		t.Errorf("EventErr = %v", res.EventErr)
	}

	raw, _ := base64.StdEncoding.DecodeString(ledger.execBytes)
	// admin is both sender and gas owner
	if bytes.Count(raw, adminAddr[:]) < 2 {
		t.Error("admin wallet should be sender and gas owner")
	}
}

func TestExecuteWithoutStampEvent(t *testing.T) {
	ledger := fundedLedger()
	ledger.execResp.Events = nil

	res, err := newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).Execute(context.Background(), testCall(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stamped != nil {
		t.Errorf("stamped = %+v, want nil", res.Stamped)
	}
	if !errors.Is(res.EventErr, ErrEventParse) {
		t.Errorf("EventErr = %v", res.EventErr)
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*fakeLedger)
		wantErr  error
		wantExec int
	}{
		{
			name:    "no coins",
			mutate:  func(l *fakeLedger) { l.coins = &CoinPage{} },
			wantErr: ErrGasFunding,
		},
		{
			name: "insufficient balance",
			mutate: func(l *fakeLedger) {
				l.coins = &CoinPage{Data: []Coin{{CoinObjectID: "0x100", Version: "1", Digest: testDigest, Balance: "10"}}}
			},
			wantErr: ErrGasFunding,
		},
		{
			name:    "coin lookup fails",
			mutate:  func(l *fakeLedger) { l.coinsErr = errors.New("connection refused") },
			wantErr: ErrSubmission,
		},
		{
			name:     "network rejects",
			mutate:   func(l *fakeLedger) { l.execErr = context.DeadlineExceeded },
			wantErr:  ErrSubmission,
			wantExec: 1,
		},
		{
			name: "transaction aborts",
			mutate: func(l *fakeLedger) {
				l.execResp.Effects.Status = ExecutionStatus{Status: "failure", Error: "MoveAbort"}
			},
			wantErr:  ErrSubmission,
			wantExec: 1,
		},
		{
			name:     "no effects",
			mutate:   func(l *fakeLedger) { l.execResp.Effects = nil },
			wantErr:  ErrSubmission,
			wantExec: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := fundedLedger()
			tt.mutate(ledger)
			res, err := newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).Execute(context.Background(), testCall(t))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if ledger.executed != tt.wantExec {
				t.Errorf("executed = %d, want %d", ledger.executed, tt.wantExec)
			}
		})
	}
}

func TestGasFundingReasons(t *testing.T) {
	ledger := fundedLedger()
	ledger.coins = &CoinPage{}
	_, err := newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).Execute(context.Background(), testCall(t))
	var gasErr *GasFundingError
	if !errors.As(err, &gasErr) || gasErr.Reason != GasNoCoins {
		t.Fatalf("err = %v, want no_coins", err)
	}

	ledger = fundedLedger()
	ledger.coins.Data = ledger.coins.Data[:1]
	_, err = newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).Execute(context.Background(), testCall(t))
	if !errors.As(err, &gasErr) || gasErr.Reason != GasInsufficientBalance {
		t.Fatalf("err = %v, want insufficient_balance", err)
	}
	if gasErr.Balance != 6_000_000 || gasErr.Budget != DefaultGasBudget {
		t.Errorf("balance/budget = %d/%d", gasErr.Balance, gasErr.Budget)
	}
}

func TestSubmitWithoutSigner(t *testing.T) {
	_, err := newTestSubmitter(fundedLedger(), nil).Execute(context.Background(), testCall(t))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestResolveObject(t *testing.T) {
	venue := Address{31: 0x77}

	shared, err := newTestSubmitter(fundedLedger(), nil).resolveObject(context.Background(), venue)
	if err != nil {
		t.Fatal(err)
	}
	if shared.Owned != nil || shared.SharedID != venue || shared.InitialSharedVersion != 7 || !shared.Mutable {
		t.Errorf("shared = %+v", shared)
	}

	ledger := fundedLedger()
	ledger.object = &ObjectData{ObjectID: venue.String(), Version: "9", Digest: testDigest, Owner: json.RawMessage(`{"AddressOwner":"0x1"}`)}
	owned, err := newTestSubmitter(ledger, nil).resolveObject(context.Background(), venue)
	if err != nil {
		t.Fatal(err)
	}
	if owned.Owned == nil || owned.Owned.Version != 9 || len(owned.Owned.Digest) != 32 {
		t.Errorf("owned = %+v", owned)
	}
}

func TestSubmissionErrorKeepsCause(t *testing.T) {
	ledger := fundedLedger()
	ledger.execErr = context.DeadlineExceeded
	_, err := newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).Execute(context.Background(), testCall(t))
	if !errors.Is(err, ErrSubmission) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want ErrSubmission wrapping DeadlineExceeded", err)
	}
}

func TestGasPaymentFollowsCursor(t *testing.T) {
	next := "page-2"
	ledger := fundedLedger()
	ledger.coins = &CoinPage{
		Data:        []Coin{{CoinObjectID: "0x100", Version: "1", Digest: testDigest, Balance: "1"}},
		NextCursor:  &next,
		HasNextPage: true,
	}
	ledger.morePages = map[string]*CoinPage{
		next: {Data: []Coin{{CoinObjectID: "0x101", Version: "2", Digest: testDigest, Balance: "20000000"}}},
	}

	refs, err := newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).gasPayment(context.Background(), adminAddr)
	if err != nil {
		t.Fatalf("gasPayment: %v", err)
	}
	if len(refs) != 2 || refs[1].Version != 2 {
		t.Errorf("refs = %+v", refs)
	}
	if len(ledger.cursors) != 1 || ledger.cursors[0] != next {
		t.Errorf("cursors = %v", ledger.cursors)
	}
}

func TestGasPaymentStopsOnceBudgetCovered(t *testing.T) {
	next := "unused"
	ledger := fundedLedger()
	ledger.coins.NextCursor = &next
	ledger.coins.HasNextPage = true

	refs, err := newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).gasPayment(context.Background(), adminAddr)
	if err != nil {
		t.Fatalf("gasPayment: %v", err)
	}
	if len(refs) != 2 || len(ledger.cursors) != 0 {
		t.Errorf("refs = %d, cursors = %v", len(refs), ledger.cursors)
	}
}

func TestGasPaymentInsufficientAcrossPages(t *testing.T) {
	next := "page-2"
	ledger := fundedLedger()
	ledger.coins = &CoinPage{
		Data:        []Coin{{CoinObjectID: "0x100", Version: "1", Digest: testDigest, Balance: "1"}},
		NextCursor:  &next,
		HasNextPage: true,
	}
	ledger.morePages = map[string]*CoinPage{
		next: {Data: []Coin{{CoinObjectID: "0x101", Version: "2", Digest: testDigest, Balance: "2"}}},
	}

	_, err := newTestSubmitter(ledger, &fakeSigner{addr: adminAddr}).gasPayment(context.Background(), adminAddr)
	var gasErr *GasFundingError
	if !errors.As(err, &gasErr) || gasErr.Reason != GasInsufficientBalance || gasErr.Balance != 3 {
		t.Fatalf("err = %v, want insufficient_balance with 3 MIST", err)
	}
}
