// Package dashboard is the headless core of the inventory dashboard: the session,
// the local collections and the stock workflows, driven through the API client.
package dashboard

import (
	"context"
	"fmt"

	"github.com/rajithaprasad/hardwareProject/internal/client"
)

// Dashboard wires the session, the store and the workflows to one API client.
type Dashboard struct {
	API      *client.Client
	Session  *Session
	Store    *Store
	Notifier Notifier
}

func New(api *client.Client, notifier Notifier) *Dashboard {
	if notifier == nil {
		notifier = NewLogNotifier(nil)
	}
	return &Dashboard{
		API:      api,
		Session:  &Session{},
		Store:    NewStore(api, notifier),
		Notifier: notifier,
	}
}

// Login signs in and loads every collection.
func (d *Dashboard) Login(ctx context.Context, username, password string) error {
	if err := d.Session.Login(ctx, d.API, username, password); err != nil {
		d.Notifier.Error(fmt.Sprintf("Login failed: %v", err))
		return err
	}
	user, _ := d.Session.User()
	d.Notifier.Success("Welcome, " + d.Session.DisplayName() + " (" + user.Role + ")")
	return d.Store.LoadAll(ctx)
}

func (d *Dashboard) Logout() {
	d.Session.Logout(d.API)
	d.Store.Clear()
}

func (d *Dashboard) NewTransactionFlow() *TransactionFlow {
	return NewTransactionFlow(d.API, d.Store, d.Session, d.Notifier)
}

func (d *Dashboard) NewQRWizard() *QRWizard {
	return NewQRWizard(d.API, d.NewTransactionFlow(), d.Notifier)
}
