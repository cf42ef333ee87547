package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rajithaprasad/hardwareProject/internal/client"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
)

var (
	ErrNotAllowed      = errors.New("your role cannot perform this action")
	ErrNoOpenForm      = errors.New("no transaction form is open")
	ErrUnknownMaterial = errors.New("material is not loaded")
)

// StockAPI is the stock surface of the API client.
type StockAPI interface {
	RecordTransaction(ctx context.Context, in client.TransactionInput) (*client.TransactionResult, error)
	MaterialByQR(ctx context.Context, code string) (*entity.Material, error)
}

// FlowState of a transaction modal.
type FlowState int

const (
	StateIdle FlowState = iota
	StateFormOpen
	StateSubmitted
)

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFormOpen:
		return "form-open"
	case StateSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("FlowState(%d)", int(s))
}

// TransactionFlow drives one check-in or check-out modal.
// The idempotency key is fixed when the form opens so retries of the same
// submission are applied once.
type TransactionFlow struct {
	mu       sync.Mutex
	api      StockAPI
	store    *Store
	session  *Session
	notifier Notifier

	state    FlowState
	txType   string
	material entity.Material
	key      string
	form     TransactionForm

	now    func() time.Time
	newKey func() string
}

func NewTransactionFlow(api StockAPI, store *Store, session *Session, notifier Notifier) *TransactionFlow {
	return &TransactionFlow{
		api:      api,
		store:    store,
		session:  session,
		notifier: notifier,
		now:      time.Now,
		newKey:   uuid.NewString,
	}
}

// Open starts a form for a material from the store.
func (f *TransactionFlow) Open(materialID, txType string) error {
	m, ok := f.store.Materials.Find(materialID)
	if !ok {
		return fmt.Errorf("%s: %w", materialID, ErrUnknownMaterial)
	}
	return f.OpenMaterial(m, txType)
}

// OpenMaterial starts a form for m. The session must hold the capability for txType.
func (f *TransactionFlow) OpenMaterial(m entity.Material, txType string) error {
	var capability string
	switch txType {
	case entity.TxTypeCheckIn:
		capability = entity.CapAddToStock
	case entity.TxTypeCheckOut:
		capability = entity.CapWithdrawFromStock
	default:
		return entity.ErrInvalidTxType
	}
	if !f.session.Can(capability) {
		return ErrNotAllowed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateFormOpen
	f.txType = txType
	f.material = m
	f.key = f.newKey()
	f.form = TransactionForm{}
	return nil
}

func (f *TransactionFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns the last submitted input, kept after a failure.
func (f *TransactionFlow) Form() TransactionForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *TransactionFlow) Key() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

// Submit validates the form and records the movement. On failure the form stays
// open with its input and the same key; local lists are untouched.
func (f *TransactionFlow) Submit(ctx context.Context, form TransactionForm) (*client.TransactionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateFormOpen {
		return nil, ErrNoOpenForm
	}
	f.form = form

	if err := validateForm(form); err != nil {
		f.notifier.Error(err.Error())
		return nil, err
	}
	site := strings.TrimSpace(form.ConstructionSite)
	if f.txType == entity.TxTypeCheckOut {
		if site == "" {
			err := fmt.Errorf("%w: constructionSite is required", ErrInvalidForm)
			f.notifier.Error(err.Error())
			return nil, err
		}
		stock := f.material.CurrentStock
		if m, ok := f.store.Materials.Find(f.material.ID); ok {
			stock = m.CurrentStock
		}
		if _, err := entity.NextStock(stock, f.txType, form.Quantity); err != nil {
			f.notifier.Error(fmt.Sprintf("Insufficient stock. Available: %d %s", stock, f.material.Unit))
			return nil, err
		}
	}

	result, err := f.api.RecordTransaction(ctx, client.TransactionInput{
		MaterialID:       f.material.ID,
		Type:             f.txType,
		Quantity:         form.Quantity,
		Reason:           strings.TrimSpace(form.Reason),
		ConstructionSite: site,
		IdempotencyKey:   f.key,
	})
	if err != nil {
		f.notifier.Error(fmt.Sprintf("Failed to record transaction: %v", err))
		return nil, err
	}

	user, _ := f.session.User()
	f.store.ApplyTransaction(entity.Transaction{
		ID:               result.ID,
		MaterialID:       f.material.ID,
		Type:             f.txType,
		Quantity:         form.Quantity,
		Reason:           strings.TrimSpace(form.Reason),
		ConstructionSite: site,
		User:             f.session.DisplayName(),
		UserID:           user.ID,
		UserRole:         user.Role,
		StockAfter:       result.NewStock,
		Timestamp:        f.now(),
	}, *result, f.now())

	f.state = StateSubmitted
	verb := "added to"
	if f.txType == entity.TxTypeCheckOut {
		verb = "withdrawn from"
	}
	f.notifier.Success(fmt.Sprintf("%d %s %s stock of %s", form.Quantity, f.material.Unit, verb, f.material.Name))
	return result, nil
}

// Close discards the form and returns to idle.
func (f *TransactionFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
	f.txType = ""
	f.material = entity.Material{}
	f.key = ""
	f.form = TransactionForm{}
}
