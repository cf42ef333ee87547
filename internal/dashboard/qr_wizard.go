package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rajithaprasad/hardwareProject/internal/client"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
)

var (
	ErrMaterialNotFound = errors.New("no material matches this QR code")
	ErrOutOfStock       = errors.New("material is out of stock")
	ErrWrongStep        = errors.New("action not available at this step")
)

// WizardStep of the scan-to-withdraw wizard.
type WizardStep int

const (
	StepScan WizardStep = iota
	StepConfirm
	StepWithdraw
)

func (s WizardStep) String() string {
	switch s {
	case StepScan:
		return "scan"
	case StepConfirm:
		return "confirm"
	case StepWithdraw:
		return "withdraw"
	}
	return fmt.Sprintf("WizardStep(%d)", int(s))
}

// QRWizard walks scan → confirm → withdraw and hands the check-out to a TransactionFlow.
type QRWizard struct {
	mu       sync.Mutex
	api      StockAPI
	flow     *TransactionFlow
	notifier Notifier

	step     WizardStep
	material *entity.Material
	opened   bool
}

func NewQRWizard(api StockAPI, flow *TransactionFlow, notifier Notifier) *QRWizard {
	return &QRWizard{api: api, flow: flow, notifier: notifier}
}

func (w *QRWizard) Step() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Material is the scanned material, nil before a successful scan.
func (w *QRWizard) Material() *entity.Material {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.material == nil {
		return nil
	}
	m := *w.material
	return &m
}

// QRImageURL of the scanned material, for the confirm step.
func (w *QRWizard) QRImageURL() string {
	if m := w.Material(); m != nil {
		return entity.QRImageURL(m.QRCode)
	}
	return ""
}

// Scan looks the code up. An unknown code keeps the wizard on the scan step.
func (w *QRWizard) Scan(ctx context.Context, code string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepScan {
		return ErrWrongStep
	}
	code = strings.TrimSpace(code)
	if code == "" {
		err := fmt.Errorf("%w: QR code is required", ErrInvalidForm)
		w.notifier.Error(err.Error())
		return err
	}

	m, err := w.api.MaterialByQR(ctx, code)
	if client.IsNotFound(err) {
		w.material = nil
		w.notifier.Error("Material not found for this QR code")
		return fmt.Errorf("%s: %w", code, ErrMaterialNotFound)
	}
	if err != nil {
		w.material = nil
		w.notifier.Error(fmt.Sprintf("QR lookup failed: %v", err))
		return err
	}
	w.material = m
	w.flow.store.RefreshMaterial(*m)
	w.step = StepConfirm
	return nil
}

// Proceed moves from confirm to withdraw. It is blocked when nothing is in stock.
func (w *QRWizard) Proceed() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepConfirm || w.material == nil {
		return ErrWrongStep
	}
	if w.material.CurrentStock <= 0 {
		w.notifier.Error(fmt.Sprintf("%s is out of stock", w.material.Name))
		return ErrOutOfStock
	}
	w.step = StepWithdraw
	return nil
}

// Withdraw submits the check-out. Quantity must be within [1, currentStock].
// On success the wizard resets to scan; on failure it stays on withdraw.
func (w *QRWizard) Withdraw(ctx context.Context, form WithdrawForm) (*client.TransactionResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepWithdraw || w.material == nil {
		return nil, ErrWrongStep
	}
	if err := validateForm(form); err != nil {
		w.notifier.Error(err.Error())
		return nil, err
	}
	if form.Quantity > w.material.CurrentStock {
		err := fmt.Errorf("%w: quantity must be at most %d", ErrInvalidForm, w.material.CurrentStock)
		w.notifier.Error(err.Error())
		return nil, err
	}

	// the flow keeps one idempotency key across retries of this withdrawal
	if !w.opened {
		if err := w.flow.OpenMaterial(*w.material, entity.TxTypeCheckOut); err != nil {
			w.notifier.Error(err.Error())
			return nil, err
		}
		w.opened = true
	}
	result, err := w.flow.Submit(ctx, TransactionForm{
		Quantity:         form.Quantity,
		Reason:           form.Reason,
		ConstructionSite: form.ConstructionSite,
	})
	if err != nil {
		return nil, err
	}
	w.resetLocked()
	return result, nil
}

// Cancel discards all input at any step. Nothing is recorded.
func (w *QRWizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *QRWizard) resetLocked() {
	if w.opened {
		w.flow.Close()
	}
	w.step = StepScan
	w.material = nil
	w.opened = false
}
