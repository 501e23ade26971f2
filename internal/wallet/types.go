package wallet

import (
	"context"

	"github.com/selendra/did-wallet/internal/wallet/address"
	"github.com/selendra/did-wallet/internal/wallet/binding"
	"github.com/selendra/did-wallet/internal/wallet/faucet"
)

// Binder runs the account binding protocol. *binding.Binder implements it.
type Binder interface {
	Bind(ctx context.Context, evmKey *address.EvmKeyPair, nativeKey *address.NativeKeyPair) (*binding.Receipt, error)
}

// Airdropper requests initial funds for a native address. *faucet.Client implements it.
type Airdropper interface {
	Enabled() bool
	RequestAirdrop(ctx context.Context, nativeAddress string) (*faucet.Response, error)
}

// Step names of wallet creation, in execution order.
const (
	StepMnemonic = "mnemonic"
	StepDerive   = "derive"
	StepVault    = "vault"
	StepSession  = "session"
	StepAirdrop  = "airdrop"
	StepBind     = "bind"
)

type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepSuccess StepStatus = "success"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// Step is one entry of the creation report. Err is the cause of a failed step.
type Step struct {
	Name    string
	Status  StepStatus
	Message string
	Err     error
}

type CreateRequest struct {
	// Mnemonic restores an existing phrase; a new one is generated when empty.
	Mnemonic       string
	Words          int
	Password       string
	RequestAirdrop bool
	Bind           bool
}

type CreateResult struct {
	// Mnemonic is only set when it was generated and must be shown for backup.
	Mnemonic      string
	EvmAddress    string
	NativeAddress string
	Steps         []Step
	Receipt       *binding.Receipt
}

// Step returns the named step.
func (r *CreateResult) Step(name string) (Step, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}

	return Step{}, false
}

// Export is a vault document ready to be downloaded.
type Export struct {
	Filename string
	Data     []byte
}

type report struct {
	steps []Step
}

func newReport(names ...string) *report {
	r := &report{steps: make([]Step, len(names))}
	for i, name := range names {
		r.steps[i] = Step{Name: name, Status: StepPending}
	}

	return r
}

func (r *report) set(name string, status StepStatus, message string, err error) {
	for i := range r.steps {
		if r.steps[i].Name == name {
			r.steps[i].Status = status
			r.steps[i].Message = message
			r.steps[i].Err = err
			return
		}
	}
}

func (r *report) succeed(name string) {
	r.set(name, StepSuccess, "", nil)
}

func (r *report) fail(name string, err error) {
	r.set(name, StepFailed, err.Error(), err)
}

func (r *report) skip(name string, reason string) {
	r.set(name, StepSkipped, reason, nil)
}

// finish marks every step still pending as skipped, so each ends terminal.
func (r *report) finish(reason string) []Step {
	for i := range r.steps {
		if r.steps[i].Status == StepPending {
			r.steps[i].Status = StepSkipped
			r.steps[i].Message = reason
		}
	}

	return r.steps
}
